package web

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"adventcal/internal/adapters/http/middleware"
	"adventcal/internal/domain/admin"
	"adventcal/internal/domain/door"
)

// TestMain points template resolution at the package-local directory.
func TestMain(m *testing.M) {
	templatesDir = "templates"
	os.Exit(m.Run())
}

// --- Mocks ---

type mockStore struct {
	records []door.Record
	loadErr error
	saveErr error
}

// Load implements the mock Store for testing.
// PRE: none
// POST: Returns a copy of the stored records or the injected error
func (m *mockStore) Load(ctx context.Context) ([]door.Record, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]door.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Save implements the mock Store for testing.
// PRE: records form a complete table
// POST: Records replace the stored table
func (m *mockStore) Save(ctx context.Context, records []door.Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = make([]door.Record, len(records))
	copy(m.records, records)
	return nil
}

// Get implements the mock Store for testing.
// PRE: day is within the stored table
// POST: Returns the matching record or ErrInvalidDay
func (m *mockStore) Get(ctx context.Context, day int) (door.Record, error) {
	if m.loadErr != nil {
		return door.Record{}, m.loadErr
	}
	for _, rec := range m.records {
		if rec.Day == day {
			return rec, nil
		}
	}
	return door.Record{}, fmt.Errorf("day %d: %w", day, door.ErrInvalidDay)
}

type stubEncoder struct{}

// Encode implements the mock Encoder for testing.
// PRE: reference is non-empty
// POST: Returns fake PNG bytes
func (stubEncoder) Encode(reference string, size int) ([]byte, error) {
	return []byte("png:" + reference), nil
}

var testCal = door.Calendar{
	Year:     2025,
	Month:    time.December,
	MaxDay:   3,
	BaseURL:  "https://advent.example.com",
	Kid1Name: "Maya",
	Kid2Name: "Leo",
}

func setupDeps(t *testing.T) *mockStore {
	t.Helper()
	store := &mockStore{records: []door.Record{
		{Day: 1, MessageKid1: "m1", MessageKid2: "l1", Active: true},
		{Day: 2, MessageKid1: "m2 **bold**", MessageKid2: "l2", Active: true},
		{Day: 3, MessageKid1: "m3", MessageKid2: "l3", Active: false},
	}}
	secret, err := admin.NewSecret("letmein")
	if err != nil {
		t.Fatal(err)
	}
	deps = &Deps{
		Store:    store,
		Calendar: testCal,
		Secret:   secret,
		Encoder:  stubEncoder{},
	}
	sessions = middleware.NewSessionStore()
	return store
}

func adminRequest(method, target string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := middleware.ContextWithSession(req.Context(), middleware.Session{CreatedAt: time.Now()})
	return req.WithContext(ctx)
}

// --- Door message page ---

// TestHandleDoorMessage_Revealed tests a revealed door.
func TestHandleDoorMessage_Revealed(t *testing.T) {
	setupDeps(t)
	timeNow = func() time.Time { return time.Date(2025, time.December, 2, 10, 0, 0, 0, time.UTC) }
	defer func() { timeNow = time.Now }()

	req := httptest.NewRequest("GET", "/Door_Message?day=2&kid=1", nil)
	rec := httptest.NewRecorder()
	handleDoorMessage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Maya") {
		t.Error("body missing recipient name")
	}
	if !strings.Contains(body, "<strong>bold</strong>") {
		t.Error("body missing rendered markdown message")
	}
	if strings.Contains(body, "l2") {
		t.Error("body leaks the other recipient's message")
	}
}

// TestHandleDoorMessage_Sealed tests a door before its unlock date.
func TestHandleDoorMessage_Sealed(t *testing.T) {
	setupDeps(t)
	timeNow = func() time.Time { return time.Date(2025, time.December, 1, 10, 0, 0, 0, time.UTC) }
	defer func() { timeNow = time.Now }()

	req := httptest.NewRequest("GET", "/Door_Message?day=2&kid=1", nil)
	rec := httptest.NewRecorder()
	handleDoorMessage(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "sealed") {
		t.Errorf("body missing sealed notice: %s", body)
	}
	if !strings.Contains(body, "2 December 2025") {
		t.Error("body missing unlock date")
	}
	if strings.Contains(body, "m2") {
		t.Error("sealed door leaks the message")
	}
}

// TestHandleDoorMessage_Disabled tests a deactivated door.
func TestHandleDoorMessage_Disabled(t *testing.T) {
	setupDeps(t)
	timeNow = func() time.Time { return time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC) }
	defer func() { timeNow = time.Now }()

	req := httptest.NewRequest("GET", "/Door_Message?day=3&kid=1", nil)
	rec := httptest.NewRecorder()
	handleDoorMessage(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "Temporarily Disabled") {
		t.Errorf("body missing disabled notice: %s", body)
	}
	if strings.Contains(body, "m3") {
		t.Error("disabled door leaks the message")
	}
}

// TestHandleDoorMessage_BadParams tests that bad requests all get the
// same generic denial.
func TestHandleDoorMessage_BadParams(t *testing.T) {
	setupDeps(t)
	timeNow = func() time.Time { return time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC) }
	defer func() { timeNow = time.Now }()

	targets := []string{
		"/Door_Message",
		"/Door_Message?day=abc&kid=1",
		"/Door_Message?day=99&kid=1",
		"/Door_Message?day=1&kid=3",
		"/Door_Message?day=1",
	}
	for _, target := range targets {
		req := httptest.NewRequest("GET", target, nil)
		rec := httptest.NewRecorder()
		handleDoorMessage(rec, req)
		if !strings.Contains(rec.Body.String(), "Access Denied") {
			t.Errorf("%s: body missing generic denial", target)
		}
	}
}

// --- Login ---

// TestHandleLogin_Success tests that a correct password mints a session.
func TestHandleLogin_Success(t *testing.T) {
	setupDeps(t)
	form := url.Values{"password": {"letmein"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handleLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("redirect = %q, want /admin", loc)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Value == "" {
		t.Error("no session cookie set")
	}
}

// TestHandleLogin_WrongPassword tests the failed login path.
func TestHandleLogin_WrongPassword(t *testing.T) {
	setupDeps(t)
	form := url.Values{"password": {"nope"}}
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handleLogin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), "Incorrect password") {
		t.Error("body missing failure notice")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("session cookie set on failed login")
	}
}

// --- Admin ---

// TestRequireAdmin_RedirectsAnonymous tests the admin gate middleware.
func TestRequireAdmin_RedirectsAnonymous(t *testing.T) {
	setupDeps(t)
	handler := middleware.RequireAdmin(http.HandlerFunc(handleAdmin))
	req := httptest.NewRequest("GET", "/admin", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}
}

// TestHandleAdmin_RendersEditor tests the editor page.
func TestHandleAdmin_RendersEditor(t *testing.T) {
	setupDeps(t)
	req := adminRequest("GET", "/admin", nil)
	rec := httptest.NewRecorder()
	handleAdmin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"Maya", "Leo", "m2 **bold**", "message_kid1_1", "active_3"} {
		if !strings.Contains(body, want) {
			t.Errorf("editor body missing %q", want)
		}
	}
}

// TestHandleAdminSave_ReplacesTable tests the full-table save flow.
func TestHandleAdminSave_ReplacesTable(t *testing.T) {
	store := setupDeps(t)

	form := url.Values{}
	for day := 1; day <= 3; day++ {
		form.Set(fmt.Sprintf("day_%d", day), fmt.Sprintf("%d", day))
		form.Set(fmt.Sprintf("message_kid1_%d", day), fmt.Sprintf("new kid1 %d", day))
		form.Set(fmt.Sprintf("message_kid2_%d", day), fmt.Sprintf("new kid2 %d", day))
		form.Set(fmt.Sprintf("active_%d", day), "on")
	}
	form.Del("active_2") // deactivate door 2

	req := adminRequest("POST", "/admin/save", form)
	rec := httptest.NewRecorder()
	handleAdminSave(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("got %d, want %d. Body: %s", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if len(store.records) != 3 {
		t.Fatalf("store holds %d records, want 3", len(store.records))
	}
	if store.records[0].MessageKid1 != "new kid1 1" {
		t.Errorf("record 1 = %+v", store.records[0])
	}
	if store.records[1].Active {
		t.Error("door 2 still active after unchecked box")
	}
}

// TestHandleAdminSave_BadDayField tests tampered hidden fields.
func TestHandleAdminSave_BadDayField(t *testing.T) {
	setupDeps(t)
	form := url.Values{"day_1": {"not-a-number"}}
	req := adminRequest("POST", "/admin/save", form)
	rec := httptest.NewRecorder()
	handleAdminSave(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// --- QR bundle ---

// TestHandleQRBundle tests the streamed archive.
func TestHandleQRBundle(t *testing.T) {
	setupDeps(t)
	req := adminRequest("GET", "/admin/qr-bundle", nil)
	rec := httptest.NewRecorder()
	handleQRBundle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q, want application/zip", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "advent_qr_codes_2025.zip") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	raw := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("archive unreadable: %v", err)
	}
	if len(zr.File) != 6 {
		t.Errorf("archive holds %d entries, want 6", len(zr.File))
	}
	if zr.File[0].Name != "QR_Day_1_Maya.png" {
		t.Errorf("first entry = %q, want QR_Day_1_Maya.png", zr.File[0].Name)
	}
}
