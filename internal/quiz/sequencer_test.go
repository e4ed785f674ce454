package quiz

import (
	"testing"
	"time"
)

func waitStarting(t *testing.T, n *fakeNotifier) string {
	t.Helper()
	select {
	case roomID := <-n.starting:
		return roomID
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for RoundStarting")
		return ""
	}
}

func waitOpened(t *testing.T, n *fakeNotifier) QuestionView {
	t.Helper()
	select {
	case view := <-n.opened:
		return view
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for QuestionOpened")
		return QuestionView{}
	}
}

func waitFinal(t *testing.T, n *fakeNotifier) FinalView {
	t.Helper()
	select {
	case view := <-n.finished:
		return view
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for RoundFinished")
		return FinalView{}
	}
}

func TestRunRound_FullFlow(t *testing.T) {
	store := newFakeStore(10)
	notifier := newFakeNotifier()
	eng, reg := newTestEngine(store, notifier)

	eng.Join(joinReq("room-1", 100, 100, "Ali"))
	eng.Join(joinReq("room-1", 100, 200, "Sara"))

	if err := eng.Start("room-1", 100, 2, 1); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if roomID := waitStarting(t, notifier); roomID != "room-1" {
		t.Fatalf("RoundStarting room = %q", roomID)
	}

	// question 1: Ali answers correctly, Sara stays silent
	q1 := waitOpened(t, notifier)
	if q1.Number != 1 || q1.Total != 2 {
		t.Fatalf("question 1 numbering = %d/%d", q1.Number, q1.Total)
	}
	if q1.Text == "" || q1.Options[0] == "" {
		t.Fatalf("question 1 not populated: %+v", q1)
	}
	var correct int
	reg.Mutate("room-1", func(room *Room) { correct = room.Current.CorrectOption })
	result, err := eng.Answer(q1.RoomID, q1.QuestionID, 100, correct)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if !result.Correct || result.Points < 1 {
		t.Fatalf("correct answer result = %+v", result)
	}

	// intermission carries interim standings
	select {
	case interim := <-notifier.intermissions:
		if interim.Number != 1 {
			t.Errorf("intermission number = %d, want 1", interim.Number)
		}
		if len(interim.Standings) != 2 {
			t.Errorf("intermission standings = %d rows, want 2", len(interim.Standings))
		}
		if interim.Standings[0].UserID != 100 {
			t.Errorf("leader = %d, want Ali (100)", interim.Standings[0].UserID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for intermission")
	}

	// question 2: both stay silent
	q2 := waitOpened(t, notifier)
	if q2.Number != 2 {
		t.Fatalf("question 2 numbering = %d", q2.Number)
	}

	final := waitFinal(t, notifier)
	if len(final.Standings) != 2 {
		t.Fatalf("final standings = %d rows, want 2", len(final.Standings))
	}
	winner, loser := final.Standings[0], final.Standings[1]
	if winner.UserID != 100 {
		t.Fatalf("winner = %d, want 100", winner.UserID)
	}
	if winner.Correct != 1 || winner.Wrong != 1 {
		t.Errorf("winner tallies = ✔%d ✖%d, want ✔1 ✖1", winner.Correct, winner.Wrong)
	}
	if loser.Correct != 0 || loser.Wrong != 2 {
		t.Errorf("loser tallies = ✔%d ✖%d, want ✔0 ✖2", loser.Correct, loser.Wrong)
	}
	if winner.Points < 1 {
		t.Errorf("winner points = %d, want at least 1", winner.Points)
	}

	// room is gone, stats persisted for both participants
	deadline := time.Now().Add(2 * time.Second)
	for reg.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if reg.Len() != 0 {
		t.Error("room should be deleted after the round")
	}

	store.mu.Lock()
	writes := len(store.statWrites)
	store.mu.Unlock()
	if writes != 2 {
		t.Errorf("stat writes = %d, want 2", writes)
	}

	store.mu.Lock()
	created := store.quizCreated[100]
	played := store.played["topic-1"]
	store.mu.Unlock()
	if created != 1 {
		t.Errorf("quizCreated[100] = %d, want 1", created)
	}
	if played != 1 {
		t.Errorf("played[topic-1] = %d, want 1", played)
	}
}

func TestRunRound_RoomDeletedMidRound(t *testing.T) {
	notifier := newFakeNotifier()
	eng, reg := newTestEngine(newFakeStore(10), notifier)

	eng.Join(joinReq("room-1", 100, 100, "Ali"))
	eng.Join(joinReq("room-1", 100, 200, "Sara"))
	if err := eng.Start("room-1", 100, 2, 1); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	waitStarting(t, notifier)
	waitOpened(t, notifier)
	reg.Delete("room-1")

	select {
	case <-notifier.finished:
		t.Fatal("deleted room should never finish")
	case <-time.After(3 * time.Second):
	}
}

func TestRunRound_LateJoinScoredWrong(t *testing.T) {
	notifier := newFakeNotifier()
	eng, _ := newTestEngine(newFakeStore(10), notifier)

	eng.Join(joinReq("room-1", 100, 100, "Ali"))
	eng.Join(joinReq("room-1", 100, 200, "Sara"))
	if err := eng.Start("room-1", 100, 2, 1); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitStarting(t, notifier)
	waitOpened(t, notifier)

	// a third user joins while question 1 is open
	if _, err := eng.Join(joinReq("room-1", 100, 300, "Reza")); err != nil {
		t.Fatalf("late Join() error = %v", err)
	}

	<-notifier.intermissions
	waitOpened(t, notifier)
	final := waitFinal(t, notifier)

	if len(final.Standings) != 3 {
		t.Fatalf("final standings = %d rows, want 3", len(final.Standings))
	}
	for _, s := range final.Standings {
		if s.UserID == 300 && s.Wrong != 2 {
			t.Errorf("late joiner wrong = %d, want 2 missed windows", s.Wrong)
		}
	}
}
