package anagram

import (
	"strings"
	"testing"
)

func testSet(words ...string) QuestionSet {
	qs := make([]Question, len(words))
	for i, w := range words {
		letters := strings.Split(strings.ToUpper(w), "")
		qs[i] = Question{ID: "q" + w, ImageURL: "img/" + w + ".png", Letters: letters, HintLimit: 2}
	}
	return QuestionSet{GameID: "g1", Name: "Test Game", ScorePerQuestion: 100, Questions: qs}
}

func mustSession(t *testing.T, set QuestionSet) *Session {
	t.Helper()
	s, err := NewSession(set)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// fillAll places every tile in rack order.
func fillAll(t *testing.T, s *Session) {
	t.Helper()
	snap := s.Snapshot()
	for i := range snap.Tiles {
		if !s.PlaceTile(i) {
			t.Fatalf("PlaceTile(%d) refused", i)
		}
	}
}

// checkInvariants asserts the contiguity and conservation invariants.
func checkInvariants(t *testing.T, s *Session) {
	t.Helper()
	snap := s.Snapshot()
	seenEmpty := false
	filled := 0
	for i, letter := range snap.Slots {
		if letter == "" {
			seenEmpty = true
			continue
		}
		if seenEmpty {
			t.Fatalf("slot %d filled after an empty slot: %v", i, snap.Slots)
		}
		filled++
	}
	used := 0
	for _, tile := range snap.Tiles {
		if tile.Used {
			used++
		}
	}
	if used != filled {
		t.Fatalf("conservation broken: %d tiles used, %d slots filled", used, filled)
	}
}

func TestNewSessionEmptySet(t *testing.T) {
	if _, err := NewSession(QuestionSet{}); err != ErrNoQuestions {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}

func TestPlaceTileFillsFirstEmptySlot(t *testing.T) {
	s := mustSession(t, testSet("cat"))
	if !s.PlaceTile(1) {
		t.Fatal("PlaceTile(1) refused")
	}
	snap := s.Snapshot()
	if snap.Slots[0] != "A" || snap.Slots[1] != "" {
		t.Fatalf("expected letter in first slot only, got %v", snap.Slots)
	}
	if !snap.Tiles[1].Used {
		t.Fatal("tile 1 should be marked used")
	}
	checkInvariants(t, s)

	// Used tile cannot be placed twice.
	if s.PlaceTile(1) {
		t.Fatal("placing a used tile should no-op")
	}
	// Out of range is a no-op.
	if s.PlaceTile(-1) || s.PlaceTile(99) {
		t.Fatal("out-of-range tile index should no-op")
	}
}

func TestPlaceTileNoFreeSlot(t *testing.T) {
	s := mustSession(t, testSet("no"))
	fillAll(t, s)
	snap := s.Snapshot()
	for _, l := range snap.Slots {
		if l == "" {
			t.Fatal("expected all slots filled")
		}
	}
	if s.PlaceTile(0) {
		t.Fatal("placement with no free slot should no-op")
	}
}

func TestRemoveSlotShiftsLeft(t *testing.T) {
	s := mustSession(t, testSet("dog"))
	s.PlaceTile(0) // D
	s.PlaceTile(1) // O
	s.PlaceTile(2) // G
	// Remove the middle slot; G shifts into its place.
	if !s.RemoveSlot(1) {
		t.Fatal("RemoveSlot(1) refused")
	}
	snap := s.Snapshot()
	if snap.Slots[0] != "D" || snap.Slots[1] != "G" || snap.Slots[2] != "" {
		t.Fatalf("expected [D G _], got %v", snap.Slots)
	}
	if snap.Tiles[1].Used {
		t.Fatal("removed tile should be unused again")
	}
	checkInvariants(t, s)

	// Empty slot removal is a no-op.
	if s.RemoveSlot(2) {
		t.Fatal("removing an empty slot should no-op")
	}
}

func TestRemoveSlotDuplicateLetters(t *testing.T) {
	// Two Os: slot identity must resolve to the exact tile that filled it.
	s := mustSession(t, testSet("oo"))
	s.PlaceTile(1)
	s.PlaceTile(0)
	if !s.RemoveSlot(0) {
		t.Fatal("RemoveSlot(0) refused")
	}
	snap := s.Snapshot()
	if snap.Tiles[1].Used {
		t.Fatal("tile 1 filled slot 0 and should have been released")
	}
	if !snap.Tiles[0].Used {
		t.Fatal("tile 0 still fills a slot and should stay used")
	}
	checkInvariants(t, s)
}

func TestKeyboardMatchesPointer(t *testing.T) {
	// Two identical sessions: one driven by keys, one by clicks.
	a := mustSession(t, testSet("lull"))
	b := mustSession(t, testSet("lull"))

	if !a.PressKey("l") {
		t.Fatal("letter key refused")
	}
	// Pointer path: first unused tile whose letter matches.
	placed := false
	for i, tile := range b.Snapshot().Tiles {
		if strings.EqualFold(tile.Letter, "l") && !tile.Used {
			b.PlaceTile(i)
			placed = true
			break
		}
	}
	if !placed {
		t.Fatal("no matching tile for pointer path")
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	for i := range sa.Tiles {
		if sa.Tiles[i] != sb.Tiles[i] {
			t.Fatalf("tile %d diverged: %+v vs %+v", i, sa.Tiles[i], sb.Tiles[i])
		}
	}
	for i := range sa.Slots {
		if sa.Slots[i] != sb.Slots[i] {
			t.Fatalf("slot %d diverged: %q vs %q", i, sa.Slots[i], sb.Slots[i])
		}
	}

	// Case-insensitivity.
	if !a.PressKey("U") {
		t.Fatal("uppercase key should match lowercase tile")
	}
	// Unknown letter is a no-op.
	if a.PressKey("z") {
		t.Fatal("unmatched letter should no-op")
	}
}

func TestBackspaceClearsLastFilledSlot(t *testing.T) {
	s := mustSession(t, testSet("cat"))
	s.PlaceTile(0)
	s.PlaceTile(1)
	if !s.PressKey("backspace") {
		t.Fatal("backspace refused")
	}
	snap := s.Snapshot()
	if snap.Slots[0] == "" || snap.Slots[1] != "" {
		t.Fatalf("backspace should clear only the last filled slot: %v", snap.Slots)
	}
	checkInvariants(t, s)

	s.PressKey("backspace")
	if s.PressKey("backspace") {
		t.Fatal("backspace with empty slots should no-op")
	}
}

func TestAutoCheckSingleFlight(t *testing.T) {
	s := mustSession(t, testSet("cat"))
	fillAll(t, s)
	if !s.ReadyToCheck() {
		t.Fatal("expected ready to check with all slots filled")
	}
	qid, answer, ok := s.BeginCheck()
	if !ok || qid != "qcat" || answer != "cat" {
		t.Fatalf("BeginCheck = (%q, %q, %v)", qid, answer, ok)
	}
	// Second arm attempt while in flight must refuse.
	if _, _, ok := s.BeginCheck(); ok {
		t.Fatal("second BeginCheck while checking should refuse")
	}
	if s.ReadyToCheck() {
		t.Fatal("ReadyToCheck must be false while checking")
	}
}

func TestGatingDuringCheckAndFeedback(t *testing.T) {
	for _, phase := range []string{"checking", "correct", "wrong"} {
		s := mustSession(t, testSet("cat", "dog"))
		fillAll(t, s)
		s.BeginCheck()
		switch phase {
		case "correct":
			s.ApplyCorrect(0)
		case "wrong":
			s.ApplyWrong()
		}
		before := s.Snapshot()
		if s.PlaceTile(0) || s.RemoveSlot(0) || s.PressKey("c") || s.PressKey("backspace") || s.Navigate(1) {
			t.Fatalf("%s: input handlers must no-op", phase)
		}
		after := s.Snapshot()
		if before.QuestionIndex != after.QuestionIndex || before.Score != after.Score {
			t.Fatalf("%s: gated events changed state", phase)
		}
	}
}

func TestWrongAnswerRetrySameQuestion(t *testing.T) {
	s := mustSession(t, testSet("cat", "dog"))
	fillAll(t, s)
	s.BeginCheck()
	if !s.ApplyWrong() {
		t.Fatal("ApplyWrong refused")
	}
	if s.Snapshot().Feedback != FeedbackWrong {
		t.Fatal("expected wrong feedback")
	}
	if !s.CompleteFeedback() {
		t.Fatal("CompleteFeedback refused")
	}
	snap := s.Snapshot()
	if snap.QuestionIndex != 0 {
		t.Fatal("wrong answer must stay on the same question")
	}
	for _, l := range snap.Slots {
		if l != "" {
			t.Fatalf("slots should be cleared after wrong dwell: %v", snap.Slots)
		}
	}
	for _, tile := range snap.Tiles {
		if tile.Used {
			t.Fatal("tiles should be released after wrong dwell")
		}
	}
	if snap.Score != 0 || snap.CorrectAnswers != 0 {
		t.Fatal("wrong answer must not score")
	}
	// Retry is unlimited: the same question accepts input again.
	if !s.PlaceTile(0) {
		t.Fatal("expected input accepted after wrong dwell")
	}
}

func TestCorrectAdvancesAndFinishes(t *testing.T) {
	s := mustSession(t, testSet("cat", "dog"))

	fillAll(t, s)
	s.BeginCheck()
	if !s.ApplyCorrect(0) {
		t.Fatal("ApplyCorrect refused")
	}
	snap := s.Snapshot()
	if snap.Feedback != FeedbackCorrect || snap.EarnedScore != 100 {
		t.Fatalf("expected correct feedback with default award, got %+v", snap)
	}
	s.CompleteFeedback()
	snap = s.Snapshot()
	if snap.QuestionIndex != 1 || snap.Finished {
		t.Fatalf("expected advance to question 1, got %+v", snap)
	}
	for _, tile := range snap.Tiles {
		if tile.Used {
			t.Fatal("next question should start with fresh tiles")
		}
	}

	// Last question: correct feedback finishes the session.
	fillAll(t, s)
	s.BeginCheck()
	s.ApplyCorrect(250) // service override beats the default
	s.CompleteFeedback()
	snap = s.Snapshot()
	if !snap.Finished {
		t.Fatal("expected finished after last correct answer")
	}
	if snap.Score != 350 {
		t.Fatalf("expected score 100+250=350, got %d", snap.Score)
	}
	if !snap.Perfect {
		t.Fatal("2/2 correct should be perfect")
	}
}

func TestScoringDefaultsExample(t *testing.T) {
	// 5 questions, default 100 points, 4 correct => 400.
	s := mustSession(t, testSet("aa", "bb", "cc", "dd", "ee"))
	for i := 0; i < 5; i++ {
		fillAll(t, s)
		s.BeginCheck()
		if i == 2 {
			s.ApplyWrong()
			s.CompleteFeedback()
			s.Navigate(1) // skip the missed question
			continue
		}
		s.ApplyCorrect(0)
		s.CompleteFeedback()
	}
	snap := s.Snapshot()
	if !snap.Finished {
		t.Fatalf("expected finished, got %+v", snap)
	}
	if snap.Score != 400 || snap.CorrectAnswers != 4 {
		t.Fatalf("expected 400 points / 4 correct, got %d / %d", snap.Score, snap.CorrectAnswers)
	}
	if snap.Perfect {
		t.Fatal("4/5 must not be perfect")
	}
}

func TestNavigationReinitializesWithoutRescoring(t *testing.T) {
	s := mustSession(t, testSet("cat", "dog"))
	fillAll(t, s)
	s.BeginCheck()
	s.ApplyCorrect(0)
	s.CompleteFeedback() // now on question 1, score 100

	if !s.Navigate(-1) {
		t.Fatal("Navigate(-1) refused")
	}
	snap := s.Snapshot()
	if snap.QuestionIndex != 0 || snap.Score != 100 {
		t.Fatalf("navigation must not touch the score: %+v", snap)
	}
	for _, l := range snap.Slots {
		if l != "" {
			t.Fatal("navigation must reinitialize slots")
		}
	}

	// Re-answer the solved question: feedback plays, score stays.
	fillAll(t, s)
	s.BeginCheck()
	s.ApplyCorrect(0)
	snap = s.Snapshot()
	if snap.Score != 100 || snap.CorrectAnswers != 1 {
		t.Fatalf("re-answer must not double-score: %+v", snap)
	}
	if snap.EarnedScore != 0 {
		t.Fatal("re-answer shows no fresh award")
	}

	// Bounds.
	s.CompleteFeedback()
	s.Navigate(1)
	if s.Navigate(1) {
		t.Fatal("Navigate past the last question should no-op")
	}
}

func TestCheckErrorReturnsToIdle(t *testing.T) {
	s := mustSession(t, testSet("cat"))
	fillAll(t, s)
	s.BeginCheck()
	if !s.ApplyCheckError("content service unreachable") {
		t.Fatal("ApplyCheckError refused")
	}
	snap := s.Snapshot()
	if snap.Checking || snap.Feedback != FeedbackNone {
		t.Fatalf("expected idle after check error, got %+v", snap)
	}
	if snap.CheckError == "" {
		t.Fatal("check error must be surfaced")
	}
	for _, l := range snap.Slots {
		if l == "" {
			t.Fatal("slots must stay intact after a check error")
		}
	}
	// Explicit retry re-arms the check.
	if _, _, ok := s.BeginCheck(); !ok {
		t.Fatal("retry after check error should arm a new check")
	}
	// Altering slots clears the surfaced error too.
	s2 := mustSession(t, testSet("cat"))
	fillAll(t, s2)
	s2.BeginCheck()
	s2.ApplyCheckError("boom")
	s2.RemoveSlot(0)
	if s2.Snapshot().CheckError != "" {
		t.Fatal("slot mutation should clear the check error")
	}
}

func TestTickStopsWhenFinished(t *testing.T) {
	s := mustSession(t, testSet("a"))
	s.Tick()
	s.Tick()
	if s.ElapsedSec() != 2 {
		t.Fatalf("expected 2s elapsed, got %d", s.ElapsedSec())
	}
	fillAll(t, s)
	s.BeginCheck()
	s.ApplyCorrect(0)
	s.CompleteFeedback()
	s.Tick()
	if s.ElapsedSec() != 2 {
		t.Fatal("elapsed time must freeze once finished")
	}
}

func TestPlayAgainResets(t *testing.T) {
	s := mustSession(t, testSet("cat", "dog"))
	if s.PlayAgain() {
		t.Fatal("PlayAgain before finished should no-op")
	}
	for i := 0; i < 2; i++ {
		fillAll(t, s)
		s.BeginCheck()
		s.ApplyCorrect(0)
		s.CompleteFeedback()
	}
	s.Tick()
	if !s.Finished() {
		t.Fatal("expected finished")
	}
	if !s.PlayAgain() {
		t.Fatal("PlayAgain from finished refused")
	}
	snap := s.Snapshot()
	if snap.Score != 0 || snap.CorrectAnswers != 0 || snap.ElapsedSec != 0 || snap.QuestionIndex != 0 {
		t.Fatalf("PlayAgain must reset all counters: %+v", snap)
	}
	if snap.Finished || snap.Feedback != FeedbackNone || snap.Checking {
		t.Fatalf("PlayAgain must land in idle: %+v", snap)
	}
	// Solved bookkeeping resets too: scoring works again.
	fillAll(t, s)
	s.BeginCheck()
	s.ApplyCorrect(0)
	if s.Score() != 100 {
		t.Fatal("second play-through must score from zero")
	}
}

func TestInvariantsAcrossRandomishSequence(t *testing.T) {
	s := mustSession(t, testSet("banana"))
	moves := []func() bool{
		func() bool { return s.PlaceTile(0) },
		func() bool { return s.PressKey("a") },
		func() bool { return s.PressKey("n") },
		func() bool { return s.RemoveSlot(0) },
		func() bool { return s.PressKey("backspace") },
		func() bool { return s.PlaceTile(3) },
		func() bool { return s.PressKey("A") },
		func() bool { return s.RemoveSlot(1) },
	}
	for round := 0; round < 8; round++ {
		for _, mv := range moves {
			mv()
			if s.ReadyToCheck() {
				// Drain via a wrong round trip to keep events flowing.
				s.BeginCheck()
				s.ApplyWrong()
				s.CompleteFeedback()
			}
			checkInvariants(t, s)
		}
	}
}
