package quiz

import (
	"time"

	"github.com/mroshb/quiz_bot/pkg/logger"
)

// runRound drives one quiz from the starting countdown to the final
// board. It is the only goroutine that advances the room's question
// cursor; answers arrive concurrently through Engine.Answer under the
// same room lock.
func (e *Engine) runRound(roomID string) {
	e.notifier.RoundStarting(roomID)
	time.Sleep(e.opts.StartDelay)

	var total int
	if !e.registry.Mutate(roomID, func(room *Room) { total = len(room.Questions) }) {
		return
	}

	for i := 0; i < total; i++ {
		var (
			view      QuestionView
			timeLimit int
		)
		ok := e.registry.Mutate(roomID, func(room *Room) {
			q := room.Questions[i]
			current := room.openQuestion(i, time.Now())
			timeLimit = room.TimeLimit
			view = QuestionView{
				RoomID:     room.ID,
				QuestionID: current.ID,
				Number:     i + 1,
				Total:      total,
				Text:       q.Text,
				Options:    q.Options,
				TimeLimit:  timeLimit,
			}
		})
		if !ok {
			return
		}
		e.notifier.QuestionOpened(roomID, view)

		time.Sleep(time.Duration(timeLimit) * time.Second)

		var interim IntermissionView
		ok = e.registry.Mutate(roomID, func(room *Room) {
			room.closeQuestion()
			interim = IntermissionView{
				RoomID:    room.ID,
				Number:    i + 1,
				Total:     total,
				Standings: room.standings(),
			}
		})
		if !ok {
			return
		}
		if i < total-1 {
			e.notifier.IntermissionStarted(roomID, interim)
			time.Sleep(e.opts.Intermission)
		}
	}

	e.finishRound(roomID)
}

func (e *Engine) finishRound(roomID string) {
	var final FinalView
	ok := e.registry.Mutate(roomID, func(room *Room) {
		room.Status = StatusFinished
		final = FinalView{
			RoomID:    room.ID,
			TopicID:   room.TopicID,
			TopicName: room.TopicName,
			Standings: room.standings(),
		}
	})
	if !ok {
		return
	}
	e.notifier.RoundFinished(roomID, final)

	for _, s := range final.Standings {
		if err := e.store.UpdateUserStats(s.UserID, s.Correct, s.Wrong, s.Points); err != nil {
			logger.Error("quiz: persist round stats failed",
				"room_id", roomID, "user_id", s.UserID, "error", err)
		}
	}
	e.registry.Delete(roomID)
	logger.Info("quiz: round finished", "room_id", roomID, "participants", len(final.Standings))
}
