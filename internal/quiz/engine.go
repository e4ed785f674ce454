package quiz

import (
	"math/rand"
	"time"

	apperrors "github.com/mroshb/quiz_bot/pkg/errors"
	"github.com/mroshb/quiz_bot/pkg/logger"
)

const minParticipants = 2

// Options tune the engine. Zero delays fall back to the live defaults;
// tests shorten them.
type Options struct {
	QuestionCounts []int
	TimeLimits     []int
	StartDelay     time.Duration
	Intermission   time.Duration
}

// Engine owns every live room lifecycle: join, settings, start, answer.
// All slow work (timers, persistence) runs on the sequencer goroutine so
// callback handlers return immediately.
type Engine struct {
	registry *Registry
	store    Store
	notifier Notifier
	opts     Options
}

func NewEngine(registry *Registry, store Store, notifier Notifier, opts Options) *Engine {
	if opts.StartDelay == 0 {
		opts.StartDelay = 3 * time.Second
	}
	if opts.Intermission == 0 {
		opts.Intermission = 2 * time.Second
	}
	if len(opts.QuestionCounts) == 0 {
		opts.QuestionCounts = []int{5, 10, 15, 20}
	}
	if len(opts.TimeLimits) == 0 {
		opts.TimeLimits = []int{10, 15, 20, 30}
	}
	return &Engine{
		registry: registry,
		store:    store,
		notifier: notifier,
		opts:     opts,
	}
}

// QuestionCounts exposes the allowed question-count choices for keyboards.
func (e *Engine) QuestionCounts() []int { return e.opts.QuestionCounts }

// TimeLimits exposes the allowed per-question second choices.
func (e *Engine) TimeLimits() []int { return e.opts.TimeLimits }

func (e *Engine) defaultSettings() Settings {
	return Settings{
		QuestionCount: e.opts.QuestionCounts[0],
		TimeLimit:     e.opts.TimeLimits[0],
	}
}

// resolveSettings pins a payload value to the allowed list; anything
// off-list falls back to the current value.
func resolveSettings(current Settings, count, limit int, counts, limits []int) Settings {
	if containsInt(counts, count) {
		current.QuestionCount = count
	}
	if containsInt(limits, limit) {
		current.TimeLimit = limit
	}
	return current
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

type JoinRequest struct {
	RoomID   string
	TopicID  string
	Creator  int64
	UserID   int64
	Username string
	FullName string
}

// Join adds the user to the room, creating it on first join. Joining
// again is a no-op that re-renders the lobby. Joins during a running
// round are allowed; missed windows still count as wrong.
func (e *Engine) Join(req JoinRequest) (LobbyView, error) {
	if err := e.store.UpsertUser(req.UserID, req.Username, req.FullName); err != nil {
		logger.Error("quiz: upsert joining user failed", "user_id", req.UserID, "error", err)
	}

	var view LobbyView
	joinFn := func(room *Room) {
		room.addParticipant(req.UserID, req.FullName)
		if req.UserID == room.CreatorID {
			room.Participants[req.UserID].FullName = req.FullName
		}
		view = e.lobbyView(room)
	}
	if e.registry.Mutate(req.RoomID, joinFn) {
		return view, nil
	}

	topic, err := e.store.GetTopic(req.TopicID)
	if err != nil {
		return LobbyView{}, err
	}
	if !topic.IsActive {
		return LobbyView{}, apperrors.New(apperrors.ErrCodeNotFound, "topic is not active")
	}

	settings, ok := e.registry.GetSettings(req.RoomID)
	if !ok {
		settings = e.defaultSettings()
	}
	creatorName := placeholderName(req.Creator)
	if req.UserID == req.Creator {
		creatorName = req.FullName
	}
	room := newRoom(req.RoomID, topic.ID, topic.Name, req.Creator, creatorName, settings)
	if req.UserID != req.Creator {
		room.addParticipant(req.UserID, req.FullName)
	}
	if !e.registry.Create(room) {
		// lost the creation race; join the winner's room
		if !e.registry.Mutate(req.RoomID, joinFn) {
			return LobbyView{}, apperrors.New(apperrors.ErrCodeNotFound, "room no longer exists")
		}
		return view, nil
	}
	e.registry.DropSettings(req.RoomID)
	return e.lobbyViewLocked(req.RoomID)
}

// ChangeQuestionCount updates the pre-start question count. Only the
// creator may change settings; the change is rejected once the round
// started.
func (e *Engine) ChangeQuestionCount(roomID, topicID string, creatorID, userID int64, count int) (LobbyView, error) {
	if !containsInt(e.opts.QuestionCounts, count) {
		return LobbyView{}, apperrors.New(apperrors.ErrCodeInvalidInput, "question count is not an allowed value")
	}
	return e.changeSettings(roomID, topicID, creatorID, userID, func(s Settings) Settings {
		s.QuestionCount = count
		return s
	})
}

// ChangeTimeLimit updates the pre-start per-question seconds.
func (e *Engine) ChangeTimeLimit(roomID, topicID string, creatorID, userID int64, limit int) (LobbyView, error) {
	if !containsInt(e.opts.TimeLimits, limit) {
		return LobbyView{}, apperrors.New(apperrors.ErrCodeInvalidInput, "time limit is not an allowed value")
	}
	return e.changeSettings(roomID, topicID, creatorID, userID, func(s Settings) Settings {
		s.TimeLimit = limit
		return s
	})
}

func (e *Engine) changeSettings(roomID, topicID string, creatorID, userID int64, apply func(Settings) Settings) (LobbyView, error) {
	if userID != creatorID {
		return LobbyView{}, apperrors.New(apperrors.ErrCodeForbidden, "only the quiz creator can change settings")
	}

	var (
		view      LobbyView
		statusErr error
	)
	mutated := e.registry.Mutate(roomID, func(room *Room) {
		if room.Status != StatusNotStarted {
			statusErr = apperrors.New(apperrors.ErrCodeAlreadyDone, "quiz already started")
			return
		}
		updated := apply(Settings{QuestionCount: room.QuestionCount, TimeLimit: room.TimeLimit})
		room.QuestionCount = updated.QuestionCount
		room.TimeLimit = updated.TimeLimit
		view = e.lobbyView(room)
	})
	if mutated {
		return view, statusErr
	}

	// no room yet: settings live in the ephemeral map until first join
	topic, err := e.store.GetTopic(topicID)
	if err != nil {
		return LobbyView{}, err
	}
	settings, ok := e.registry.GetSettings(roomID)
	if !ok {
		settings = e.defaultSettings()
	}
	settings = apply(settings)
	e.registry.PutSettings(roomID, settings)
	return LobbyView{
		RoomID:        roomID,
		TopicID:       topic.ID,
		TopicName:     topic.Name,
		CreatorID:     creatorID,
		QuestionCount: settings.QuestionCount,
		TimeLimit:     settings.TimeLimit,
		Created:       false,
	}, nil
}

// Start validates the room, freezes a shuffled question set and hands
// the round to the sequencer goroutine. Off-list payload values fall
// back to the room's current settings.
func (e *Engine) Start(roomID string, userID int64, count, limit int) error {
	var (
		startErr error
		topicID  string
		need     int
	)
	mutated := e.registry.Mutate(roomID, func(room *Room) {
		if userID != room.CreatorID {
			startErr = apperrors.New(apperrors.ErrCodeForbidden, "only the quiz creator can start")
			return
		}
		if room.Status != StatusNotStarted {
			startErr = apperrors.New(apperrors.ErrCodeAlreadyDone, "quiz already started")
			return
		}
		if len(room.Participants) < minParticipants {
			startErr = apperrors.New(apperrors.ErrCodeInsufficientPlayers, "at least two participants are required")
			return
		}
		updated := resolveSettings(
			Settings{QuestionCount: room.QuestionCount, TimeLimit: room.TimeLimit},
			count, limit, e.opts.QuestionCounts, e.opts.TimeLimits)
		room.QuestionCount = updated.QuestionCount
		room.TimeLimit = updated.TimeLimit
		topicID = room.TopicID
		need = room.QuestionCount
	})
	if !mutated {
		return apperrors.New(apperrors.ErrCodeNotFound, "quiz room not found")
	}
	if startErr != nil {
		return startErr
	}

	pool, err := e.store.GetApprovedQuestionsByTopic(topicID)
	if err != nil {
		return err
	}
	if len(pool) < need {
		return apperrors.New(apperrors.ErrCodeInsufficientQuestions, "not enough approved questions for this topic")
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	frozen := pool[:need]

	started := false
	mutated = e.registry.Mutate(roomID, func(room *Room) {
		if room.Status != StatusNotStarted {
			return
		}
		room.Status = StatusRunning
		room.Questions = frozen
		started = true
	})
	if !mutated {
		return apperrors.New(apperrors.ErrCodeNotFound, "quiz room not found")
	}
	if !started {
		return apperrors.New(apperrors.ErrCodeAlreadyDone, "quiz already started")
	}

	if err := e.store.IncrementQuizCreated(userID); err != nil {
		logger.Error("quiz: increment quiz_created failed", "user_id", userID, "error", err)
	}
	if err := e.store.IncrementTopicPlayed(topicID); err != nil {
		logger.Error("quiz: increment topic played failed", "topic_id", topicID, "error", err)
	}
	e.registry.DropSettings(roomID)

	go e.runRound(roomID)
	return nil
}

// ErrAlreadyAnswered marks a repeated answer for the same question, so
// callers can toast it differently from a closed window.
var ErrAlreadyAnswered = apperrors.New(apperrors.ErrCodeAlreadyDone, "already answered this question")

// Answer records one user's option for the open window. First answer
// wins; repeats, late answers and intermission taps are rejected.
func (e *Engine) Answer(roomID, questionID string, userID int64, option int) (AnswerResult, error) {
	var (
		result    AnswerResult
		answerErr error
	)
	mutated := e.registry.Mutate(roomID, func(room *Room) {
		current := room.Current
		if current == nil || current.ID != questionID {
			answerErr = apperrors.New(apperrors.ErrCodeAlreadyDone, "answer window is closed")
			return
		}
		p, ok := room.Participants[userID]
		if !ok {
			answerErr = apperrors.New(apperrors.ErrCodeForbidden, "user is not in this quiz")
			return
		}
		if current.Answered[userID] {
			answerErr = ErrAlreadyAnswered
			return
		}
		current.Answered[userID] = true

		result.CorrectOption = current.CorrectOption
		if option == current.CorrectOption {
			elapsed := int(time.Since(current.OpenedAt).Seconds())
			points := int64(1 + maxInt(0, room.TimeLimit-elapsed))
			p.Correct++
			p.Points += points
			result.Correct = true
			result.Points = points
		} else {
			p.Wrong++
		}
	})
	if !mutated {
		return AnswerResult{}, apperrors.New(apperrors.ErrCodeNotFound, "quiz room not found")
	}
	return result, answerErr
}

func (e *Engine) lobbyView(room *Room) LobbyView {
	return LobbyView{
		RoomID:        room.ID,
		TopicID:       room.TopicID,
		TopicName:     room.TopicName,
		CreatorID:     room.CreatorID,
		QuestionCount: room.QuestionCount,
		TimeLimit:     room.TimeLimit,
		Created:       true,
		Participants:  room.standings(),
	}
}

func (e *Engine) lobbyViewLocked(roomID string) (LobbyView, error) {
	var view LobbyView
	if !e.registry.Mutate(roomID, func(room *Room) { view = e.lobbyView(room) }) {
		return LobbyView{}, apperrors.New(apperrors.ErrCodeNotFound, "quiz room not found")
	}
	return view, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
