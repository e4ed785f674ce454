package quiz

// TopicInfo is the engine's view of a topic record.
type TopicInfo struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
}

// Question is one frozen quiz question. Options are positional; the
// answer keyboard renders buttons 1-4 against them.
type Question struct {
	Text          string
	Options       [4]string
	CorrectOption int
}

// Store is the durable topic/question/user collaborator. The engine only
// reads topics and approved pools and writes aggregate counters; it never
// owns approval state.
type Store interface {
	GetTopic(topicID string) (TopicInfo, error)
	GetApprovedQuestionsByTopic(topicID string) ([]Question, error)
	IncrementQuizCreated(userID int64) error
	IncrementTopicPlayed(topicID string) error
	UpsertUser(userID int64, username, fullName string) error
	UpdateUserStats(userID int64, correctDelta, wrongDelta int, pointsDelta int64) error
}

// Notifier receives push updates from the sequencer so the presentation
// layer can edit the shared quiz message. Join and settings changes are
// not pushed; their views are returned synchronously to the caller.
type Notifier interface {
	RoundStarting(roomID string)
	QuestionOpened(roomID string, view QuestionView)
	IntermissionStarted(roomID string, view IntermissionView)
	RoundFinished(roomID string, view FinalView)
}
