package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"
)

// Black-box tests against a running server. They are skipped when no server
// is listening on apiBase, so `go test ./...` stays green in CI without a
// database.
const apiBase = "http://localhost:8080"

type registerResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func requireServer(t *testing.T) {
	t.Helper()
	resp, err := http.Get(apiBase + "/healthz")
	if err != nil {
		t.Skipf("API server not running at %s: %v", apiBase, err)
	}
	resp.Body.Close()
}

func postJSON(t *testing.T, path, token string, payload interface{}) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	req, err := http.NewRequest("POST", apiBase+path, bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func getJSON(t *testing.T, path, token string, out interface{}) int {
	t.Helper()
	req, err := http.NewRequest("GET", apiBase+path, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode GET %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func registerUser(t *testing.T, name string) registerResponse {
	t.Helper()
	email := fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano())
	resp := postJSON(t, "/api/users/register", "", map[string]string{
		"name":             name,
		"email":            email,
		"password":         "password123",
		"professionalPath": "EXPAT",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", email, resp.StatusCode)
	}
	var reg registerResponse
	if err := json.NewDecoder(resp.Body).Decode(&reg); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	if reg.Token == "" {
		t.Fatal("no token in register response")
	}
	return reg
}

func TestDuplicateEmailRejected(t *testing.T) {
	requireServer(t)

	email := fmt.Sprintf("dup-%d@example.com", time.Now().UnixNano())
	payload := map[string]string{"name": "Dup", "email": email, "password": "password123"}

	resp := postJSON(t, "/api/users/register", "", payload)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register: status %d", resp.StatusCode)
	}

	resp = postJSON(t, "/api/users/register", "", payload)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict && resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("second register: want 409/400, got %d", resp.StatusCode)
	}
}

func TestProtectedRouteNeedsToken(t *testing.T) {
	requireServer(t)

	if code := getJSON(t, "/api/budget", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", code)
	}
}

func TestBudgetLifecycle(t *testing.T) {
	requireServer(t)
	user := registerUser(t, "budget")

	// Missing required fields
	resp := postJSON(t, "/api/budget", user.Token, map[string]interface{}{"category": "Food"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("create without type/amount: want 400, got %d", resp.StatusCode)
	}

	// Create
	resp = postJSON(t, "/api/budget", user.Token, map[string]interface{}{
		"type":        "EXPENSE",
		"category":    "Food",
		"amount":      50,
		"description": "test",
		"entryDate":   time.Now().Format(time.RFC3339),
	})
	var created struct {
		Entry struct {
			ID string `json:"id"`
		} `json:"entry"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated || created.Entry.ID == "" {
		t.Fatalf("create: status %d id %q", resp.StatusCode, created.Entry.ID)
	}

	// List contains it
	var list struct {
		Entries []struct {
			ID string `json:"id"`
		} `json:"entries"`
	}
	if code := getJSON(t, "/api/budget", user.Token, &list); code != http.StatusOK {
		t.Fatalf("list: status %d", code)
	}
	found := false
	for _, e := range list.Entries {
		if e.ID == created.Entry.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("created entry %s missing from list", created.Entry.ID)
	}

	// Another user cannot delete it
	stranger := registerUser(t, "stranger")
	req, _ := http.NewRequest("DELETE", apiBase+"/api/budget/"+created.Entry.ID, nil)
	req.Header.Set("Authorization", "Bearer "+stranger.Token)
	dresp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("foreign delete: %v", err)
	}
	dresp.Body.Close()
	if dresp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign delete: want 404, got %d", dresp.StatusCode)
	}

	// Owner deletes it
	req, _ = http.NewRequest("DELETE", apiBase+"/api/budget/"+created.Entry.ID, nil)
	req.Header.Set("Authorization", "Bearer "+user.Token)
	dresp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	dresp.Body.Close()
	if dresp.StatusCode != http.StatusOK {
		t.Fatalf("delete: want 200, got %d", dresp.StatusCode)
	}

	// Gone from the list
	list.Entries = nil
	getJSON(t, "/api/budget", user.Token, &list)
	for _, e := range list.Entries {
		if e.ID == created.Entry.ID {
			t.Fatalf("entry %s still listed after delete", created.Entry.ID)
		}
	}
}

func TestChecklistSeedIsIdempotent(t *testing.T) {
	requireServer(t)
	user := registerUser(t, "checklist")

	var first, second struct {
		Items []struct {
			ItemKey string `json:"itemKey"`
		} `json:"items"`
	}
	if code := getJSON(t, "/api/checklist", user.Token, &first); code != http.StatusOK {
		t.Fatalf("first checklist get: status %d", code)
	}
	if len(first.Items) == 0 {
		t.Fatal("checklist not seeded on first read")
	}
	if code := getJSON(t, "/api/checklist", user.Token, &second); code != http.StatusOK {
		t.Fatalf("second checklist get: status %d", code)
	}
	if len(first.Items) != len(second.Items) {
		t.Fatalf("seeding not idempotent: %d then %d items", len(first.Items), len(second.Items))
	}
}

func TestForumThreadPostScenario(t *testing.T) {
	requireServer(t)
	alice := registerUser(t, "alice")
	bob := registerUser(t, "bob")

	title := fmt.Sprintf("Housing tips %d", time.Now().UnixNano())
	resp := postJSON(t, "/api/forums", alice.Token, map[string]string{
		"title":       title,
		"description": "Share your tips",
	})
	var forum struct {
		Forum struct {
			ID string `json:"id"`
		} `json:"forum"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&forum); err != nil {
		t.Fatalf("decode forum: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create forum: status %d", resp.StatusCode)
	}

	// Duplicate title rejected
	resp = postJSON(t, "/api/forums", alice.Token, map[string]string{
		"title":       title,
		"description": "Copy",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict && resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate forum: want 409/400, got %d", resp.StatusCode)
	}

	// Alice opens a thread
	resp = postJSON(t, "/api/forums/"+forum.Forum.ID+"/threads", alice.Token, map[string]string{
		"title":   "Deposit horror stories",
		"content": "Mine wanted three months up front",
	})
	var thread struct {
		Thread struct {
			ID        string `json:"id"`
			PostCount int    `json:"postCount"`
		} `json:"thread"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&thread); err != nil {
		t.Fatalf("decode thread: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create thread: status %d", resp.StatusCode)
	}
	if thread.Thread.PostCount != 1 {
		t.Fatalf("thread should open with its first post, got count %d", thread.Thread.PostCount)
	}

	// Bob replies
	resp = postJSON(t, "/api/forums/threads/"+thread.Thread.ID+"/posts", bob.Token, map[string]string{
		"content": "Same here, negotiate it down",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post: status %d", resp.StatusCode)
	}

	// Forum detail lists the thread with both posts counted
	var detail struct {
		Threads []struct {
			ID        string `json:"id"`
			PostCount int    `json:"postCount"`
		} `json:"threads"`
	}
	if code := getJSON(t, "/api/forums/"+forum.Forum.ID, "", &detail); code != http.StatusOK {
		t.Fatalf("forum detail: status %d", code)
	}
	found := false
	for _, th := range detail.Threads {
		if th.ID == thread.Thread.ID {
			found = true
			if th.PostCount != 2 {
				t.Fatalf("want post count 2, got %d", th.PostCount)
			}
		}
	}
	if !found {
		t.Fatal("created thread missing from forum detail")
	}

	// Missing thread yields 404
	resp = postJSON(t, "/api/forums/threads/000000000000000000000000/posts", bob.Token, map[string]string{
		"content": "hello?",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("post to missing thread: want 404, got %d", resp.StatusCode)
	}
}

func TestChatSendAndPoll(t *testing.T) {
	requireServer(t)
	user := registerUser(t, "chatter")

	before := time.Now().Add(-time.Second).UTC().Format(time.RFC3339)
	resp := postJSON(t, "/api/chat/general/messages", user.Token, map[string]string{
		"content": "hello from the e2e suite",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("send message: status %d", resp.StatusCode)
	}

	var msgs struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	code := getJSON(t, "/api/chat/general/messages?since="+before, user.Token, &msgs)
	if code != http.StatusOK {
		t.Fatalf("poll messages: status %d", code)
	}
	if len(msgs.Messages) == 0 {
		t.Fatal("polling fallback returned no new messages")
	}
}

// Pushing more than one page of messages between polls must not lose any:
// each poll returns the oldest unseen page and the client advances since to
// the last createdAt it received.
func TestChatPollWalksPastFullPage(t *testing.T) {
	requireServer(t)
	user := registerUser(t, "flooder")

	room := fmt.Sprintf("e2e-%d", time.Now().UnixNano())
	before := time.Now().Add(-time.Second).UTC().Format(time.RFC3339)

	const total = 55 // one page is 50
	for i := 0; i < total; i++ {
		resp := postJSON(t, "/api/chat/"+room+"/messages", user.Token, map[string]string{
			"content": fmt.Sprintf("msg-%d", i),
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("send message %d: status %d", i, resp.StatusCode)
		}
	}

	var page struct {
		Messages []struct {
			Content   string `json:"content"`
			CreatedAt string `json:"createdAt"`
		} `json:"messages"`
	}

	since := before
	seen := []string{}
	for i := 0; i < 5; i++ {
		code := getJSON(t, "/api/chat/"+room+"/messages?since="+since, user.Token, &page)
		if code != http.StatusOK {
			t.Fatalf("poll: status %d", code)
		}
		if len(page.Messages) == 0 {
			break
		}
		for _, m := range page.Messages {
			seen = append(seen, m.Content)
		}
		since = page.Messages[len(page.Messages)-1].CreatedAt
	}

	if len(seen) != total {
		t.Fatalf("want %d messages across polls, got %d", total, len(seen))
	}
	if seen[0] != "msg-0" || seen[total-1] != fmt.Sprintf("msg-%d", total-1) {
		t.Fatalf("messages out of order: first %q last %q", seen[0], seen[total-1])
	}
}

func TestPublicContentRoutes(t *testing.T) {
	requireServer(t)

	if code := getJSON(t, "/api/content/guides", "", nil); code != http.StatusOK {
		t.Fatalf("guides: status %d", code)
	}
	if code := getJSON(t, "/api/content/directory", "", nil); code != http.StatusOK {
		t.Fatalf("directory: status %d", code)
	}
	if code := getJSON(t, "/api/forums", "", nil); code != http.StatusOK {
		t.Fatalf("forums: status %d", code)
	}
}

func TestAdminRoutesForbiddenForRegularUser(t *testing.T) {
	requireServer(t)
	user := registerUser(t, "pleb")

	if code := getJSON(t, "/api/admin/users", user.Token, nil); code != http.StatusForbidden {
		t.Fatalf("admin route as user: want 403, got %d", code)
	}
}
