package quiz

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Standing is one participant's row in standings, ordered best first.
type Standing struct {
	UserID   int64
	FullName string
	Points   int64
	Correct  int
	Wrong    int
}

// standings snapshots the room's participants sorted by points
// descending. Ties keep join order; the sort is stable over a
// join-ordered slice.
func (r *Room) standings() []Standing {
	out := make([]Standing, 0, len(r.joinOrder))
	for _, userID := range r.joinOrder {
		p := r.Participants[userID]
		out = append(out, Standing{
			UserID:   p.UserID,
			FullName: p.FullName,
			Points:   p.Points,
			Correct:  p.Correct,
			Wrong:    p.Wrong,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d.", rank)
	}
}

// FormatTop renders at most max standings rows with medals, appending a
// "+K نفر دیگر" line when rows were cut.
func FormatTop(standings []Standing, max int) string {
	var sb strings.Builder
	shown := len(standings)
	if shown > max {
		shown = max
	}
	for i := 0; i < shown; i++ {
		s := standings[i]
		sb.WriteString(fmt.Sprintf("%s %s — %d امتیاز\n", medal(i+1), s.FullName, s.Points))
	}
	if rest := len(standings) - shown; rest > 0 {
		sb.WriteString(fmt.Sprintf("و %d+ نفر دیگر\n", rest))
	}
	return sb.String()
}

// FormatFull renders every standings row with correct/wrong tallies.
func FormatFull(standings []Standing) string {
	var sb strings.Builder
	for i, s := range standings {
		sb.WriteString(fmt.Sprintf("%s %s — %d امتیاز (✔️ %d | ✖️ %d)\n",
			medal(i+1), s.FullName, s.Points, s.Correct, s.Wrong))
	}
	return sb.String()
}

// FormatParticipants renders the lobby list, crowning the creator.
func FormatParticipants(participants []Standing, creatorID int64, max int) string {
	var sb strings.Builder
	shown := len(participants)
	if shown > max {
		shown = max
	}
	for i := 0; i < shown; i++ {
		p := participants[i]
		name := p.FullName
		if p.UserID == creatorID {
			name += " 👑"
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
	}
	if rest := len(participants) - shown; rest > 0 {
		sb.WriteString(fmt.Sprintf("و %d+ نفر دیگر\n", rest))
	}
	return sb.String()
}

// UserStats carries a user's lifetime aggregates for global scoring.
type UserStats struct {
	TotalQuiz    int
	TotalCorrect int
	TotalWrong   int
	TotalPoints  int64
}

// GlobalScore blends lifetime points, accuracy and activity into one
// figure rounded to a single decimal. Users with no finished quiz score
// zero and are excluded from the board.
func GlobalScore(s UserStats) float64 {
	if s.TotalQuiz == 0 {
		return 0
	}
	accuracy := 0.0
	if answered := s.TotalCorrect + s.TotalWrong; answered > 0 {
		accuracy = float64(s.TotalCorrect) / float64(answered)
	}
	score := 0.6*float64(s.TotalPoints) + 0.3*100*accuracy + 0.1*float64(s.TotalQuiz)*5
	return math.Round(score*10) / 10
}

// RankedUser is one global leaderboard row.
type RankedUser struct {
	UserID   int64
	FullName string
	Score    float64
	Stats    UserStats
}

// BuildGlobalRanking scores users, drops zero-score entries and sorts
// descending. Input order breaks ties.
func BuildGlobalRanking(users []RankedUser) []RankedUser {
	ranked := make([]RankedUser, 0, len(users))
	for _, u := range users {
		u.Score = GlobalScore(u.Stats)
		if u.Score > 0 {
			ranked = append(ranked, u)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// GlobalRank returns the 1-based rank of userID, or 0 when unranked.
func GlobalRank(userID int64, ranked []RankedUser) int {
	for i, u := range ranked {
		if u.UserID == userID {
			return i + 1
		}
	}
	return 0
}
