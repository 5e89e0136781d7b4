package e2etests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

const (
	baseURL   = "http://localhost:8080"
	timeout   = 5 * time.Second
	waitReady = 20 * time.Second
)

var httpClient = &http.Client{Timeout: timeout}

// TestE2E_BetFlow runs a whole wager lifecycle against a running stack:
// register two users, fund them, open a bet, stake on both sides, close
// and settle, then check the payouts landed.
func TestE2E_BetFlow(t *testing.T) {
	waitUntilReady(t)

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())

	alice := registerUser(t, "alice-"+suffix+"@example.com")
	bob := registerUser(t, "bob-"+suffix+"@example.com")

	t.Run("fresh_users_start_at_zero", func(t *testing.T) {
		if got := getBalance(t, alice); got != "0.00" {
			t.Fatalf("alice initial balance: want 0.00, got %s", got)
		}
	})

	t.Run("deposit_credits_full_amount", func(t *testing.T) {
		code, body := postJSON(t, fmt.Sprintf("/user/%d/deposit", alice), map[string]any{
			"amount": "100.00",
		})
		if code != http.StatusOK {
			t.Fatalf("deposit: want 200, got %d (%s)", code, body)
		}

		var resp struct {
			Balance string `json:"balance"`
			Fee     string `json:"fee"`
		}
		mustDecode(t, body, &resp)

		if resp.Balance != "100.00" {
			t.Fatalf("balance after deposit: want 100.00, got %s", resp.Balance)
		}
		if resp.Fee != "3.20" {
			t.Fatalf("deposit fee: want 3.20, got %s", resp.Fee)
		}

		code, body = postJSON(t, fmt.Sprintf("/user/%d/deposit", bob), map[string]any{
			"amount": "100.00",
		})
		if code != http.StatusOK {
			t.Fatalf("bob deposit: want 200, got %d (%s)", code, body)
		}
	})

	t.Run("deposit_bounds_enforced", func(t *testing.T) {
		code, _ := postJSON(t, fmt.Sprintf("/user/%d/deposit", alice), map[string]any{
			"amount": "4.99",
		})
		if code != http.StatusBadRequest {
			t.Fatalf("tiny deposit: want 400, got %d", code)
		}

		code, _ = postJSON(t, fmt.Sprintf("/user/%d/deposit", alice), map[string]any{
			"amount": "1000.01",
		})
		if code != http.StatusBadRequest {
			t.Fatalf("huge deposit: want 400, got %d", code)
		}
	})

	var betID string

	t.Run("create_bet", func(t *testing.T) {
		code, body := postJSON(t, "/bets", map[string]any{
			"creatorId":      alice,
			"title":          "e2e-" + suffix,
			"minEntry":       "10.00",
			"maxEntry":       "50.00",
			"endDate":        time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
			"outcomeOptions": []string{"red", "blue"},
		})
		if code != http.StatusCreated {
			t.Fatalf("create bet: want 201, got %d (%s)", code, body)
		}

		var resp struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		mustDecode(t, body, &resp)

		if resp.ID == "" || resp.Status != "open" {
			t.Fatalf("unexpected created bet: %s", body)
		}
		betID = resp.ID
	})

	t.Run("join_both_sides", func(t *testing.T) {
		code, body := postJSON(t, "/bets/"+betID+"/join", map[string]any{
			"userId":          alice,
			"amount":          "30.00",
			"selectedOutcome": "red",
		})
		if code != http.StatusOK {
			t.Fatalf("alice join: want 200, got %d (%s)", code, body)
		}

		code, body = postJSON(t, "/bets/"+betID+"/join", map[string]any{
			"userId":          bob,
			"amount":          "20.00",
			"selectedOutcome": "blue",
		})
		if code != http.StatusOK {
			t.Fatalf("bob join: want 200, got %d (%s)", code, body)
		}

		if got := getBalance(t, alice); got != "70.00" {
			t.Fatalf("alice after join: want 70.00, got %s", got)
		}
	})

	t.Run("join_below_min_rejected", func(t *testing.T) {
		code, _ := postJSON(t, "/bets/"+betID+"/join", map[string]any{
			"userId":          bob,
			"amount":          "5.00",
			"selectedOutcome": "blue",
		})
		if code != http.StatusBadRequest {
			t.Fatalf("tiny stake: want 400, got %d", code)
		}
	})

	t.Run("close_and_settle", func(t *testing.T) {
		code, body := postJSON(t, "/bets/"+betID+"/close", nil)
		if code != http.StatusOK {
			t.Fatalf("close: want 200, got %d (%s)", code, body)
		}

		// Joining a closed bet conflicts.
		code, _ = postJSON(t, "/bets/"+betID+"/join", map[string]any{
			"userId":          bob,
			"amount":          "20.00",
			"selectedOutcome": "blue",
		})
		if code != http.StatusConflict {
			t.Fatalf("join closed: want 409, got %d", code)
		}

		code, body = postJSON(t, "/bets/"+betID+"/settle", map[string]any{
			"correctOutcome": "red",
		})
		if code != http.StatusOK {
			t.Fatalf("settle: want 200, got %d (%s)", code, body)
		}

		var resp struct {
			Winners int    `json:"winners"`
			PaidOut string `json:"paidOut"`
		}
		mustDecode(t, body, &resp)

		if resp.Winners != 1 || resp.PaidOut != "50.00" {
			t.Fatalf("unexpected settlement: %s", body)
		}

		// alice staked 30 and took the whole 50 pot.
		if got := getBalance(t, alice); got != "120.00" {
			t.Fatalf("alice after settle: want 120.00, got %s", got)
		}
		if got := getBalance(t, bob); got != "80.00" {
			t.Fatalf("bob after settle: want 80.00, got %s", got)
		}
	})

	t.Run("settle_twice_conflicts", func(t *testing.T) {
		code, _ := postJSON(t, "/bets/"+betID+"/settle", map[string]any{
			"correctOutcome": "red",
		})
		if code != http.StatusConflict {
			t.Fatalf("second settle: want 409, got %d", code)
		}
	})

	t.Run("ledger_records_everything", func(t *testing.T) {
		code, body := getPath(t, fmt.Sprintf("/user/%d/ledger", alice))
		if code != http.StatusOK {
			t.Fatalf("ledger: want 200, got %d (%s)", code, body)
		}

		var resp struct {
			Entries []struct {
				Amount string `json:"amount"`
				Type   string `json:"type"`
			} `json:"entries"`
		}
		mustDecode(t, body, &resp)

		// deposit, stake and payout.
		if len(resp.Entries) != 3 {
			t.Fatalf("ledger entries: want 3, got %d (%s)", len(resp.Entries), body)
		}
	})
}

func TestE2E_Validation(t *testing.T) {
	waitUntilReady(t)

	t.Run("duplicate_registration", func(t *testing.T) {
		email := fmt.Sprintf("dup-%d@example.com", time.Now().UnixNano())

		code, body := postJSON(t, "/register", map[string]any{
			"email": email, "username": "dup", "password": "pw",
		})
		if code != http.StatusCreated {
			t.Fatalf("first register: want 201, got %d (%s)", code, body)
		}

		code, _ = postJSON(t, "/register", map[string]any{
			"email": email, "username": "dup2", "password": "pw",
		})
		if code != http.StatusConflict {
			t.Fatalf("second register: want 409, got %d", code)
		}
	})

	t.Run("unknown_user_balance", func(t *testing.T) {
		code, _ := getPath(t, "/user/99999999/balance")
		if code != http.StatusNotFound {
			t.Fatalf("unknown user: want 404, got %d", code)
		}
	})

	t.Run("bad_amount_precision", func(t *testing.T) {
		code, _ := postJSON(t, "/user/1/deposit", map[string]any{"amount": "1.234"})
		if code != http.StatusBadRequest {
			t.Fatalf("bad precision: want 400, got %d", code)
		}
	})

	t.Run("unknown_bet", func(t *testing.T) {
		code, _ := getPath(t, "/bets/does-not-exist")
		if code != http.StatusNotFound {
			t.Fatalf("unknown bet: want 404, got %d", code)
		}
	})
}

/* -------------------- helpers -------------------- */

func registerUser(t *testing.T, email string) uint64 {
	t.Helper()

	code, body := postJSON(t, "/register", map[string]any{
		"email":    email,
		"username": strings.Split(email, "@")[0],
		"password": "pw",
	})
	if code != http.StatusCreated {
		t.Fatalf("register %s: want 201, got %d (%s)", email, code, body)
	}

	var resp struct {
		UserID uint64 `json:"userId"`
	}
	mustDecode(t, body, &resp)

	if resp.UserID == 0 {
		t.Fatalf("register %s: zero user id (%s)", email, body)
	}

	return resp.UserID
}

func getBalance(t *testing.T, userID uint64) string {
	t.Helper()

	code, body := getPath(t, fmt.Sprintf("/user/%d/balance", userID))
	if code != http.StatusOK {
		t.Fatalf("get balance: want 200, got %d (%s)", code, body)
	}

	var resp struct {
		Balance string `json:"balance"`
	}
	mustDecode(t, body, &resp)

	return resp.Balance
}

func postJSON(t *testing.T, path string, payload any) (int, string) {
	t.Helper()

	var reader io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func getPath(t *testing.T, path string) (int, string) {
	t.Helper()

	resp, err := httpClient.Get(baseURL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func mustDecode(t *testing.T, body string, dst any) {
	t.Helper()

	err := json.Unmarshal([]byte(body), dst)
	if err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
}

// waitUntilReady polls /healthz until the API answers or the deadline
// passes.
func waitUntilReady(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), waitReady)
	defer cancel()

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("service not ready at %s within %s", baseURL, waitReady)
		case <-tick.C:
			resp, err := httpClient.Get(baseURL + "/healthz")
			if err != nil {
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
	}
}
