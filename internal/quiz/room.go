package quiz

import (
	"fmt"
	"time"
)

type Status int

const (
	StatusNotStarted Status = iota
	StatusRunning
	StatusFinished
)

type Participant struct {
	UserID   int64
	FullName string
	Correct  int
	Wrong    int
	Points   int64
}

// activeQuestion exists only while an answer window is open.
type activeQuestion struct {
	ID            string
	Index         int
	CorrectOption int
	OpenedAt      time.Time
	Answered      map[int64]bool
}

// Room is one live quiz instance. All fields are guarded by the
// registry's per-room lock; nothing outside the registry mutates a Room.
type Room struct {
	ID            string
	TopicID       string
	TopicName     string
	CreatorID     int64
	QuestionCount int
	TimeLimit     int // seconds per question
	Status        Status

	Participants map[int64]*Participant
	joinOrder    []int64

	Questions []Question
	Current   *activeQuestion
}

func newRoom(id, topicID, topicName string, creatorID int64, creatorName string, s Settings) *Room {
	room := &Room{
		ID:            id,
		TopicID:       topicID,
		TopicName:     topicName,
		CreatorID:     creatorID,
		QuestionCount: s.QuestionCount,
		TimeLimit:     s.TimeLimit,
		Status:        StatusNotStarted,
		Participants:  make(map[int64]*Participant),
	}
	room.addParticipant(creatorID, creatorName)
	return room
}

func (r *Room) addParticipant(userID int64, fullName string) *Participant {
	if p, ok := r.Participants[userID]; ok {
		return p
	}
	p := &Participant{UserID: userID, FullName: fullName}
	r.Participants[userID] = p
	r.joinOrder = append(r.joinOrder, userID)
	return p
}

// placeholderName labels a creator who has not clicked the message yet.
func placeholderName(userID int64) string {
	return fmt.Sprintf("کاربر %d", userID)
}

func (r *Room) openQuestion(index int, now time.Time) *activeQuestion {
	r.Current = &activeQuestion{
		ID:            fmt.Sprintf("%s_%d", r.ID, index+1),
		Index:         index,
		CorrectOption: r.Questions[index].CorrectOption,
		OpenedAt:      now,
		Answered:      make(map[int64]bool),
	}
	return r.Current
}

// closeQuestion scores every silent participant as wrong and ends the
// answer window. A non-answer is never neutral.
func (r *Room) closeQuestion() {
	if r.Current == nil {
		return
	}
	for userID, p := range r.Participants {
		if !r.Current.Answered[userID] {
			p.Wrong++
		}
	}
	r.Current = nil
}
