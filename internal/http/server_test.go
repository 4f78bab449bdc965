package http

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"owura/internal/ledger"
)

type memSink struct {
	mu  sync.Mutex
	doc []byte
}

func (m *memSink) Load(ctx context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil {
		return nil, false, nil
	}
	return m.doc, true, nil
}

func (m *memSink) Save(ctx context.Context, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = append([]byte(nil), doc...)
	return nil
}

func newTestServer(t *testing.T, seed bool) (*httptest.Server, *ledger.Service) {
	t.Helper()

	svc := ledger.NewService(&memSink{}, ledger.WithSeedDemo(seed))
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load ledger: %v", err)
	}

	srv := NewServer(":0", svc)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	return ts, svc
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestHealthEndpoints(t *testing.T) {
	ts, _ := newTestServer(t, false)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestIndexRoute(t *testing.T) {
	ts, _ := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Owura") {
		t.Error("index page missing title")
	}
	if got := resp.Header.Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}

	resp, err = http.Get(ts.URL + "/no-such-page")
	if err != nil {
		t.Fatalf("GET /no-such-page: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", resp.StatusCode)
	}
}

func TestDashboardPartial(t *testing.T) {
	ts, _ := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/ui/dashboard")
	if err != nil {
		t.Fatalf("GET /ui/dashboard: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	for _, want := range []string{"Total Profits", "Total Owed", "Active Debtors", "Recent Activity"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestDebtorsTableShowsSeedData(t *testing.T) {
	ts, _ := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/ui/debtors")
	if err != nil {
		t.Fatalf("GET /ui/debtors: %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Kwame Asante") || !strings.Contains(body, "Ama Mensah") {
		t.Errorf("seeded debtors missing from table: %s", body)
	}

	resp, err = http.Get(ts.URL + "/ui/debtors?q=nobody")
	if err != nil {
		t.Fatalf("GET filtered: %v", err)
	}
	body = readBody(t, resp)
	if !strings.Contains(body, "No debtors found") {
		t.Errorf("filtered empty state missing: %s", body)
	}
}

func TestCreateDebtor(t *testing.T) {
	ts, svc := newTestServer(t, false)

	form := url.Values{
		"name":    {"Kofi Boateng"},
		"contact": {"024 000 0000"},
		"amount":  {"1250.50"},
		"dueDate": {"2026-09-30"},
		"notes":   {"supplies"},
	}
	resp, err := http.PostForm(ts.URL+"/debtors", form)
	if err != nil {
		t.Fatalf("POST /debtors: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if got := resp.Header.Get("HX-Trigger"); got != "ledger:changed" {
		t.Errorf("HX-Trigger = %q, want ledger:changed", got)
	}
	if !strings.Contains(body, "Kofi Boateng") {
		t.Errorf("success fragment missing name: %s", body)
	}

	book := svc.Book()
	if len(book.Debtors) != 1 {
		t.Fatalf("debtor count = %d, want 1", len(book.Debtors))
	}
	if book.Debtors[0].Amount.Cents != 125050 {
		t.Errorf("amount = %d cents, want 125050", book.Debtors[0].Amount.Cents)
	}
}

func TestCreateDebtorRejectsBadInput(t *testing.T) {
	ts, svc := newTestServer(t, false)

	form := url.Values{
		"name":    {"Bad Amount"},
		"amount":  {"not-a-number"},
		"dueDate": {"2026-09-30"},
	}
	resp, err := http.PostForm(ts.URL+"/debtors", form)
	if err != nil {
		t.Fatalf("POST /debtors: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422 (body %s)", resp.StatusCode, body)
	}
	if len(svc.Book().Debtors) != 0 {
		t.Error("invalid input must not create a debtor")
	}
}

func TestActionRoutesRequirePost(t *testing.T) {
	ts, _ := newTestServer(t, false)

	resp, err := http.Get(ts.URL + "/debtors")
	if err != nil {
		t.Fatalf("GET /debtors: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
	if got := resp.Header.Get("Allow"); got != "POST" {
		t.Errorf("Allow = %q, want POST", got)
	}
}

func TestRecordPaymentForUnknownDebtor(t *testing.T) {
	ts, _ := newTestServer(t, false)

	form := url.Values{
		"id":     {"missing"},
		"amount": {"10"},
		"date":   {"2026-08-29"},
		"method": {"cash"},
	}
	resp, err := http.PostForm(ts.URL+"/debtors/pay", form)
	if err != nil {
		t.Fatalf("POST /debtors/pay: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestExportJSON(t *testing.T) {
	ts, _ := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/export")
	if err != nil {
		t.Fatalf("GET /export: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "debtors-profits-") || !strings.Contains(cd, ".json") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	var doc struct {
		Debtors    []json.RawMessage `json:"debtors"`
		Profits    []json.RawMessage `json:"profits"`
		Payments   []json.RawMessage `json:"payments"`
		ExportDate string            `json:"exportDate"`
	}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc.ExportDate == "" {
		t.Error("exportDate missing")
	}
	if len(doc.Debtors) != 2 || len(doc.Profits) != 2 || len(doc.Payments) != 1 {
		t.Errorf("export counts = %d/%d/%d, want 2/2/1",
			len(doc.Debtors), len(doc.Profits), len(doc.Payments))
	}
}

func TestExportXLSX(t *testing.T) {
	ts, _ := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/export.xlsx")
	if err != nil {
		t.Fatalf("GET /export.xlsx: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
	// xlsx files are zip archives
	if !strings.HasPrefix(body, "PK") {
		t.Error("export is not a zip container")
	}
}

func TestImportMalformedDocument(t *testing.T) {
	ts, svc := newTestServer(t, true)
	before := svc.Book()

	resp := postImportFile(t, ts, "{not json")
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422 (body %s)", resp.StatusCode, body)
	}
	if !strings.Contains(body, "Error importing data") {
		t.Errorf("missing import error message: %s", body)
	}

	after := svc.Book()
	if len(after.Debtors) != len(before.Debtors) || len(after.Profits) != len(before.Profits) {
		t.Error("malformed import must not mutate the ledger")
	}
}

func TestImportReplacesPresentContainers(t *testing.T) {
	ts, svc := newTestServer(t, true)

	doc := `{"profits": [{"id": "p-1", "date": "2026-01-15", "description": "Consulting", "category": "service", "amount": 300.00, "paymentMethod": "bank"}]}`
	resp := postImportFile(t, ts, doc)
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if got := resp.Header.Get("HX-Trigger"); got != "ledger:changed" {
		t.Errorf("HX-Trigger = %q", got)
	}

	book := svc.Book()
	if len(book.Profits) != 1 || book.Profits[0].Description != "Consulting" {
		t.Errorf("profits not replaced: %+v", book.Profits)
	}
	if len(book.Debtors) != 2 {
		t.Errorf("debtors must be untouched, got %d", len(book.Debtors))
	}
}

func postImportFile(t *testing.T, ts *httptest.Server, content string) *http.Response {
	t.Helper()

	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "snapshot.json")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	resp, err := http.Post(ts.URL+"/import", mw.FormDataContentType(), strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("POST /import: %v", err)
	}
	return resp
}
