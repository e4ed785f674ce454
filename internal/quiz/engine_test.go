package quiz

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/mroshb/quiz_bot/pkg/errors"
)

type fakeStore struct {
	mu          sync.Mutex
	topics      map[string]TopicInfo
	questions   map[string][]Question
	upserted    map[int64]string
	quizCreated map[int64]int
	played      map[string]int
	statWrites  []statWrite
}

type statWrite struct {
	userID  int64
	correct int
	wrong   int
	points  int64
}

func newFakeStore(questionCount int) *fakeStore {
	s := &fakeStore{
		topics: map[string]TopicInfo{
			"topic-1": {ID: "topic-1", Name: "اطلاعات عمومی", IsActive: true},
			"topic-off": {ID: "topic-off", Name: "غیرفعال", IsActive: false},
		},
		questions:   make(map[string][]Question),
		upserted:    make(map[int64]string),
		quizCreated: make(map[int64]int),
		played:      make(map[string]int),
	}
	pool := make([]Question, questionCount)
	for i := range pool {
		pool[i] = Question{
			Text:          fmt.Sprintf("سوال %d", i+1),
			Options:       [4]string{"الف", "ب", "ج", "د"},
			CorrectOption: i % 4,
		}
	}
	s.questions["topic-1"] = pool
	return s
}

func (s *fakeStore) GetTopic(topicID string) (TopicInfo, error) {
	topic, ok := s.topics[topicID]
	if !ok {
		return TopicInfo{}, apperrors.New(apperrors.ErrCodeNotFound, "topic not found")
	}
	return topic, nil
}

func (s *fakeStore) GetApprovedQuestionsByTopic(topicID string) ([]Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Question(nil), s.questions[topicID]...), nil
}

func (s *fakeStore) IncrementQuizCreated(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizCreated[userID]++
	return nil
}

func (s *fakeStore) IncrementTopicPlayed(topicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played[topicID]++
	return nil
}

func (s *fakeStore) UpsertUser(userID int64, username, fullName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted[userID] = fullName
	return nil
}

func (s *fakeStore) UpdateUserStats(userID int64, correct, wrong int, points int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statWrites = append(s.statWrites, statWrite{userID, correct, wrong, points})
	return nil
}

type fakeNotifier struct {
	starting      chan string
	opened        chan QuestionView
	intermissions chan IntermissionView
	finished      chan FinalView
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		starting:      make(chan string, 8),
		opened:        make(chan QuestionView, 8),
		intermissions: make(chan IntermissionView, 8),
		finished:      make(chan FinalView, 8),
	}
}

func (n *fakeNotifier) RoundStarting(roomID string)                        { n.starting <- roomID }
func (n *fakeNotifier) QuestionOpened(roomID string, v QuestionView)       { n.opened <- v }
func (n *fakeNotifier) IntermissionStarted(roomID string, v IntermissionView) { n.intermissions <- v }
func (n *fakeNotifier) RoundFinished(roomID string, v FinalView)           { n.finished <- v }

func newTestEngine(store Store, notifier Notifier) (*Engine, *Registry) {
	reg := NewRegistry(time.Hour)
	eng := NewEngine(reg, store, notifier, Options{
		QuestionCounts: []int{2, 5},
		TimeLimits:     []int{1, 10},
		StartDelay:     20 * time.Millisecond,
		Intermission:   20 * time.Millisecond,
	})
	return eng, reg
}

func joinReq(roomID string, creator, user int64, name string) JoinRequest {
	return JoinRequest{
		RoomID:   roomID,
		TopicID:  "topic-1",
		Creator:  creator,
		UserID:   user,
		Username: "u" + name,
		FullName: name,
	}
}

func TestJoin_CreatesRoom(t *testing.T) {
	eng, reg := newTestEngine(newFakeStore(10), newFakeNotifier())

	view, err := eng.Join(joinReq("room-1", 100, 100, "Ali"))
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if !view.Created {
		t.Fatal("view should mark the room as created")
	}
	if view.TopicName != "اطلاعات عمومی" {
		t.Errorf("TopicName = %q", view.TopicName)
	}
	if view.QuestionCount != 2 || view.TimeLimit != 1 {
		t.Errorf("defaults = %d/%d, want 2/1", view.QuestionCount, view.TimeLimit)
	}
	if len(view.Participants) != 1 || view.Participants[0].FullName != "Ali" {
		t.Errorf("participants = %+v", view.Participants)
	}
	if reg.Len() != 1 {
		t.Errorf("registry Len() = %d, want 1", reg.Len())
	}
}

func TestJoin_SecondUserAndRepeat(t *testing.T) {
	eng, _ := newTestEngine(newFakeStore(10), newFakeNotifier())

	if _, err := eng.Join(joinReq("room-1", 100, 100, "Ali")); err != nil {
		t.Fatalf("creator Join() error = %v", err)
	}
	view, err := eng.Join(joinReq("room-1", 100, 200, "Sara"))
	if err != nil {
		t.Fatalf("second Join() error = %v", err)
	}
	if len(view.Participants) != 2 {
		t.Fatalf("participants = %d, want 2", len(view.Participants))
	}

	// repeat join is a no-op re-render
	view, err = eng.Join(joinReq("room-1", 100, 200, "Sara"))
	if err != nil {
		t.Fatalf("repeat Join() error = %v", err)
	}
	if len(view.Participants) != 2 {
		t.Fatalf("participants after repeat = %d, want 2", len(view.Participants))
	}
}

func TestJoin_NonCreatorFirst(t *testing.T) {
	eng, _ := newTestEngine(newFakeStore(10), newFakeNotifier())

	view, err := eng.Join(joinReq("room-1", 100, 200, "Sara"))
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if len(view.Participants) != 2 {
		t.Fatalf("participants = %d, want creator placeholder plus joiner", len(view.Participants))
	}
	if view.CreatorID != 100 {
		t.Errorf("CreatorID = %d, want 100", view.CreatorID)
	}

	// creator's later join replaces the placeholder name
	view, err = eng.Join(joinReq("room-1", 100, 100, "Ali"))
	if err != nil {
		t.Fatalf("creator Join() error = %v", err)
	}
	found := false
	for _, p := range view.Participants {
		if p.UserID == 100 && p.FullName == "Ali" {
			found = true
		}
	}
	if !found {
		t.Errorf("creator name not updated: %+v", view.Participants)
	}
}

func TestJoin_InactiveTopic(t *testing.T) {
	eng, _ := newTestEngine(newFakeStore(10), newFakeNotifier())

	req := joinReq("room-1", 100, 100, "Ali")
	req.TopicID = "topic-off"
	if _, err := eng.Join(req); apperrors.Code(err) != apperrors.ErrCodeNotFound {
		t.Fatalf("Join() error code = %v, want NOT_FOUND", apperrors.Code(err))
	}
}

func TestChangeSettings_OnlyCreator(t *testing.T) {
	eng, _ := newTestEngine(newFakeStore(10), newFakeNotifier())
	eng.Join(joinReq("room-1", 100, 100, "Ali"))

	_, err := eng.ChangeQuestionCount("room-1", "topic-1", 100, 200, 5)
	if apperrors.Code(err) != apperrors.ErrCodeForbidden {
		t.Fatalf("error code = %v, want FORBIDDEN", apperrors.Code(err))
	}

	view, err := eng.ChangeQuestionCount("room-1", "topic-1", 100, 100, 5)
	if err != nil {
		t.Fatalf("ChangeQuestionCount() error = %v", err)
	}
	if view.QuestionCount != 5 {
		t.Errorf("QuestionCount = %d, want 5", view.QuestionCount)
	}
}

func TestChangeSettings_OffListRejected(t *testing.T) {
	eng, _ := newTestEngine(newFakeStore(10), newFakeNotifier())
	eng.Join(joinReq("room-1", 100, 100, "Ali"))

	_, err := eng.ChangeTimeLimit("room-1", "topic-1", 100, 100, 999)
	if apperrors.Code(err) != apperrors.ErrCodeInvalidInput {
		t.Fatalf("error code = %v, want INVALID_INPUT", apperrors.Code(err))
	}
	if _, err := eng.ChangeQuestionCount("room-1", "topic-1", 100, 100, 3); apperrors.Code(err) != apperrors.ErrCodeInvalidInput {
		t.Fatalf("error code = %v, want INVALID_INPUT", apperrors.Code(err))
	}

	// room settings unchanged
	view, err := eng.Join(joinReq("room-1", 100, 100, "Ali"))
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if view.TimeLimit != 1 || view.QuestionCount != 2 {
		t.Errorf("settings = %d/%d, want defaults 2/1", view.QuestionCount, view.TimeLimit)
	}
}

func TestChangeSettings_BeforeAnyJoin(t *testing.T) {
	eng, _ := newTestEngine(newFakeStore(10), newFakeNotifier())

	view, err := eng.ChangeTimeLimit("room-1", "topic-1", 100, 100, 10)
	if err != nil {
		t.Fatalf("ChangeTimeLimit() error = %v", err)
	}
	if view.Created {
		t.Fatal("settings-only view should not be marked created")
	}
	if view.TimeLimit != 10 {
		t.Errorf("TimeLimit = %d, want 10", view.TimeLimit)
	}

	// first join adopts the stored settings
	joined, err := eng.Join(joinReq("room-1", 100, 100, "Ali"))
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if joined.TimeLimit != 10 {
		t.Errorf("joined TimeLimit = %d, want 10", joined.TimeLimit)
	}
}

func TestStart_Validation(t *testing.T) {
	store := newFakeStore(10)
	eng, _ := newTestEngine(store, newFakeNotifier())

	if err := eng.Start("missing", 100, 2, 1); apperrors.Code(err) != apperrors.ErrCodeNotFound {
		t.Errorf("missing room: code = %v, want NOT_FOUND", apperrors.Code(err))
	}

	eng.Join(joinReq("room-1", 100, 100, "Ali"))
	if err := eng.Start("room-1", 200, 2, 1); apperrors.Code(err) != apperrors.ErrCodeForbidden {
		t.Errorf("non-creator: code = %v, want FORBIDDEN", apperrors.Code(err))
	}
	if err := eng.Start("room-1", 100, 2, 1); apperrors.Code(err) != apperrors.ErrCodeInsufficientPlayers {
		t.Errorf("solo start: code = %v, want INSUFFICIENT_PLAYERS", apperrors.Code(err))
	}
}

func TestStart_InsufficientQuestions(t *testing.T) {
	eng, _ := newTestEngine(newFakeStore(1), newFakeNotifier())
	eng.Join(joinReq("room-1", 100, 100, "Ali"))
	eng.Join(joinReq("room-1", 100, 200, "Sara"))

	if err := eng.Start("room-1", 100, 2, 1); apperrors.Code(err) != apperrors.ErrCodeInsufficientQuestions {
		t.Fatalf("code = %v, want INSUFFICIENT_QUESTIONS", apperrors.Code(err))
	}
}

func TestStart_DuplicateRejected(t *testing.T) {
	notifier := newFakeNotifier()
	eng, _ := newTestEngine(newFakeStore(10), notifier)
	eng.Join(joinReq("room-1", 100, 100, "Ali"))
	eng.Join(joinReq("room-1", 100, 200, "Sara"))

	if err := eng.Start("room-1", 100, 2, 1); err != nil {
		t.Fatalf("first Start() error = %v", err)
	}
	if err := eng.Start("room-1", 100, 2, 1); apperrors.Code(err) != apperrors.ErrCodeAlreadyDone {
		t.Fatalf("second Start() code = %v, want ALREADY_DONE", apperrors.Code(err))
	}

	waitFinal(t, notifier)
}

func TestAnswer_Scoring(t *testing.T) {
	eng, reg := newTestEngine(newFakeStore(10), newFakeNotifier())
	eng.Join(joinReq("room-1", 100, 100, "Ali"))
	eng.Join(joinReq("room-1", 100, 200, "Sara"))

	var questionID string
	reg.Mutate("room-1", func(room *Room) {
		room.Status = StatusRunning
		room.TimeLimit = 10
		room.Questions = []Question{{Text: "q", Options: [4]string{"a", "b", "c", "d"}, CorrectOption: 2}}
		questionID = room.openQuestion(0, time.Now()).ID
	})

	result, err := eng.Answer("room-1", questionID, 100, 2)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if !result.Correct {
		t.Fatal("answer should be correct")
	}
	if result.Points != 11 {
		t.Errorf("Points = %d, want 11 for an instant answer with a 10s window", result.Points)
	}
	if result.CorrectOption != 2 {
		t.Errorf("CorrectOption = %d, want 2", result.CorrectOption)
	}

	// repeat answer rejected with the dedicated sentinel
	if _, err := eng.Answer("room-1", questionID, 100, 2); !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("repeat: err = %v, want ErrAlreadyAnswered", err)
	}

	// wrong answer scores nothing
	result, err = eng.Answer("room-1", questionID, 200, 0)
	if err != nil {
		t.Fatalf("wrong Answer() error = %v", err)
	}
	if result.Correct || result.Points != 0 {
		t.Errorf("wrong answer result = %+v", result)
	}

	// outsider rejected
	if _, err := eng.Answer("room-1", questionID, 999, 2); apperrors.Code(err) != apperrors.ErrCodeForbidden {
		t.Errorf("outsider: code = %v, want FORBIDDEN", apperrors.Code(err))
	}
}

func TestAnswer_SpeedBonus(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		expected int64
	}{
		{"instant answer gets the full bonus", 0, 11},
		{"three seconds in loses three points", 3 * time.Second, 8},
		{"at the window edge only the base point remains", 10 * time.Second, 1},
		{"a stale window never drops below one point", 30 * time.Second, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, reg := newTestEngine(newFakeStore(10), newFakeNotifier())
			eng.Join(joinReq("room-1", 100, 100, "Ali"))

			var questionID string
			reg.Mutate("room-1", func(room *Room) {
				room.Status = StatusRunning
				room.TimeLimit = 10
				room.Questions = []Question{{Text: "q", Options: [4]string{"a", "b", "c", "d"}, CorrectOption: 1}}
				questionID = room.openQuestion(0, time.Now().Add(-tt.elapsed)).ID
			})

			result, err := eng.Answer("room-1", questionID, 100, 1)
			if err != nil {
				t.Fatalf("Answer() error = %v", err)
			}
			if !result.Correct {
				t.Fatal("answer should be correct")
			}
			if result.Points != tt.expected {
				t.Errorf("Points = %d, want %d", result.Points, tt.expected)
			}
		})
	}
}

func TestAnswer_ConcurrentRepeatsCreditOnce(t *testing.T) {
	eng, reg := newTestEngine(newFakeStore(10), newFakeNotifier())
	eng.Join(joinReq("room-1", 100, 100, "Ali"))

	var questionID string
	reg.Mutate("room-1", func(room *Room) {
		room.Status = StatusRunning
		room.TimeLimit = 10
		room.Questions = []Question{{Text: "q", Options: [4]string{"a", "b", "c", "d"}, CorrectOption: 3}}
		questionID = room.openQuestion(0, time.Now()).ID
	})

	var (
		wg       sync.WaitGroup
		accepted int32
		awarded  int64
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := eng.Answer("room-1", questionID, 100, 3)
			if err == nil {
				atomic.AddInt32(&accepted, 1)
				atomic.StoreInt64(&awarded, result.Points)
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Fatalf("accepted = %d answers, want exactly 1", accepted)
	}
	reg.Mutate("room-1", func(room *Room) {
		p := room.Participants[100]
		if p.Correct != 1 {
			t.Errorf("Correct = %d, want 1", p.Correct)
		}
		if p.Points != awarded {
			t.Errorf("Points = %d, want the single award of %d", p.Points, awarded)
		}
	})
}

func TestAnswer_WindowClosed(t *testing.T) {
	eng, reg := newTestEngine(newFakeStore(10), newFakeNotifier())
	eng.Join(joinReq("room-1", 100, 100, "Ali"))

	var questionID string
	reg.Mutate("room-1", func(room *Room) {
		room.Status = StatusRunning
		room.Questions = []Question{{CorrectOption: 0}}
		questionID = room.openQuestion(0, time.Now()).ID
		room.closeQuestion()
	})

	if _, err := eng.Answer("room-1", questionID, 100, 0); apperrors.Code(err) != apperrors.ErrCodeAlreadyDone {
		t.Fatalf("code = %v, want ALREADY_DONE", apperrors.Code(err))
	}
}

func TestCloseQuestion_ScoresSilentAsWrong(t *testing.T) {
	room := testRoom("room-1")
	room.addParticipant(200, "Sara")
	room.Questions = []Question{{CorrectOption: 1}}
	room.openQuestion(0, time.Now())
	room.Current.Answered[100] = true

	room.closeQuestion()

	if room.Participants[100].Wrong != 0 {
		t.Error("answered participant should not be scored wrong")
	}
	if room.Participants[200].Wrong != 1 {
		t.Error("silent participant should be scored wrong")
	}
	if room.Current != nil {
		t.Error("window should be closed")
	}
}
