package services_test

import (
	"strings"
	"testing"
	"time"

	"mood-journal-system/services"
)

func testChatbotService(t *testing.T) (*services.ChatbotService, *services.LedgerService) {
	t.Helper()
	db := testDB(t)
	ledger := services.NewLedgerService(db, nil)
	claims := services.NewClaimService(db, ledger)
	return services.NewChatbotService(db, claims), ledger
}

func TestReply_KeywordRules(t *testing.T) {
	cases := []struct {
		input    string
		fragment string
	}{
		{"Hello!", "Hello there"},
		{"hey moodi", "Hello there"},
		{"how are you doing?", "doing well"},
		{"I feel so sad today", "sorry to hear"},
		{"today was great", "wonderful to hear"},
		{"thank you", "You're welcome"},
		{"can you help me", "here to help"},
		{"the weather outside", "Thanks for sharing"},
	}
	for _, tc := range cases {
		got := services.Reply(tc.input)
		if !strings.Contains(got, tc.fragment) {
			t.Errorf("Reply(%q) = %q, expected fragment %q", tc.input, got, tc.fragment)
		}
	}
}

func TestReply_SadBeatsGood(t *testing.T) {
	// "bad"/"sad" are checked before "good" so mixed messages get support
	got := services.Reply("not good, pretty sad actually")
	if !strings.Contains(got, "sorry to hear") {
		t.Errorf("expected supportive reply, got %q", got)
	}
}

func TestChatSession_Lifecycle(t *testing.T) {
	bot, _ := testChatbotService(t)

	session, err := bot.StartSession("u1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.Ended() {
		t.Fatal("new session must be open")
	}

	messages, err := bot.AddMessage("u1", session.ID, "hello")
	if err != nil {
		t.Fatalf("message: %v", err)
	}
	if len(messages) != 2 || !messages[0].IsUser || messages[1].IsUser {
		t.Fatalf("expected user+bot pair, got %+v", messages)
	}

	ended, err := bot.EndSession("u1", session.ID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if !ended.Ended() {
		t.Fatal("session must be marked ended")
	}

	if _, err := bot.AddMessage("u1", session.ID, "still there?"); err == nil {
		t.Fatal("messaging an ended session must fail")
	}

	transcript, err := bot.Messages("u1", session.ID)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(transcript) != 2 {
		t.Errorf("expected 2 messages, got %d", len(transcript))
	}
}

func TestChatSession_OwnershipEnforced(t *testing.T) {
	bot, _ := testChatbotService(t)

	session, err := bot.StartSession("u1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := bot.AddMessage("u2", session.ID, "hi"); err == nil {
		t.Fatal("another user must not post into the session")
	}
}

func TestRateSession_AwardsXPNoStreak(t *testing.T) {
	bot, ledger := testChatbotService(t)

	session, err := bot.StartSession("u1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := bot.EndSession("u1", session.ID); err != nil {
		t.Fatalf("end: %v", err)
	}

	rating, claim, err := bot.RateSession("u1", session.ID, 5, "loved it")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if rating.Rating != 5 {
		t.Errorf("unexpected rating %d", rating.Rating)
	}
	if !claim.Accepted || claim.XPEarned != 20 {
		t.Errorf("expected accepted +20, got %+v", claim)
	}

	got, _ := ledger.GetLedger("u1")
	if got.CurrentXP != 20 || got.Streak != 0 {
		t.Errorf("expected xp=20 streak=0, got %d/%d", got.CurrentXP, got.Streak)
	}
}

func TestRateSession_OncePerSession(t *testing.T) {
	bot, _ := testChatbotService(t)

	session, _ := bot.StartSession("u1")
	if _, _, err := bot.RateSession("u1", session.ID, 4, ""); err != nil {
		t.Fatalf("first rating: %v", err)
	}
	if _, _, err := bot.RateSession("u1", session.ID, 5, ""); err == nil {
		t.Fatal("second rating of the same session must fail")
	}
}

func TestRateSession_SecondSessionSameDayNoXP(t *testing.T) {
	bot, ledger := testChatbotService(t)

	first, _ := bot.StartSession("u1")
	if _, _, err := bot.RateSession("u1", first.ID, 4, ""); err != nil {
		t.Fatalf("first: %v", err)
	}

	second, _ := bot.StartSession("u1")
	_, claim, err := bot.RateSession("u1", second.ID, 5, "")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if claim.Accepted {
		t.Error("second rating claim the same day must be rejected")
	}

	got, _ := ledger.GetLedger("u1")
	if got.CurrentXP != 20 {
		t.Errorf("expected 20 XP after one accepted claim, got %d", got.CurrentXP)
	}
}

func TestRateSession_Bounds(t *testing.T) {
	bot, _ := testChatbotService(t)

	session, _ := bot.StartSession("u1")
	for _, r := range []int{0, 6, -1} {
		if _, _, err := bot.RateSession("u1", session.ID, r, ""); err == nil {
			t.Errorf("rating %d must be rejected", r)
		}
	}
}

func TestSessions_NewestFirst(t *testing.T) {
	bot, _ := testChatbotService(t)

	a, _ := bot.StartSession("u1")
	time.Sleep(5 * time.Millisecond)
	b, _ := bot.StartSession("u1")

	sessions, err := bot.Sessions("u1")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != b.ID || sessions[1].ID != a.ID {
		t.Error("sessions must be newest first")
	}
}
