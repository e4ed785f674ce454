package quiz

// LobbyView describes the pre-start message after a join or settings
// change. Created is false while only settings exist and no one joined.
type LobbyView struct {
	RoomID        string
	TopicID       string
	TopicName     string
	CreatorID     int64
	QuestionCount int
	TimeLimit     int
	Created       bool
	Participants  []Standing
}

// QuestionView is pushed when an answer window opens.
type QuestionView struct {
	RoomID     string
	QuestionID string
	Number     int // 1-based
	Total      int
	Text       string
	Options    [4]string
	TimeLimit  int
}

// IntermissionView is pushed between questions with interim standings.
type IntermissionView struct {
	RoomID    string
	Number    int // question just closed, 1-based
	Total     int
	Standings []Standing
}

// FinalView is pushed once when the round finishes.
type FinalView struct {
	RoomID    string
	TopicID   string
	TopicName string
	Standings []Standing
}

// AnswerResult is returned to the answering user for their toast.
type AnswerResult struct {
	Correct       bool
	Points        int64
	CorrectOption int
}
