package bot

import (
	"sync"

	"github.com/Kayszu18/yandex-market-bot/internal/domain/withdrawals"
)

// Step is the position of a chat in a multi-message conversation flow.
type Step int

const (
	StepIdle Step = iota

	// Order submission
	StepOrderURL
	StepOrderScreenshot

	// Withdrawal request
	StepWithdrawDestType
	StepWithdrawDestination
	StepWithdrawAmount

	// Admin flows
	StepBroadcastText
	StepManageUserID
	StepProofPhoto
)

// Session holds the in-flight conversation state for one chat.
type Session struct {
	Step          Step
	ProductURL    string
	DestType      withdrawals.DestinationType
	Destination   string
	WithdrawalID  int64
	BroadcastText string
}

// Sessions is a chat id keyed session registry.
type Sessions struct {
	sessions map[int64]*Session
	mu       sync.Mutex
}

func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[int64]*Session),
	}
}

// Get returns the session for the chat, creating an idle one if absent.
func (s *Sessions) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		session = &Session{}
		s.sessions[chatID] = session
	}

	return session
}

// Reset drops the chat back to the idle state.
func (s *Sessions) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
}
