package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	client "github.com/root-ali/iris-console/client/v1"
)

type tokenSource string

func (s tokenSource) AuthToken() string { return string(s) }

func newClient(handler http.Handler) (*httptest.Server, *client.Client, error) {
	ts := httptest.NewServer(handler)
	config := client.Config{
		URL: ts.URL,
	}
	cli, err := client.New(config)
	return ts, cli, err
}

func newClientWithToken(handler http.Handler, token string) (*httptest.Server, *client.Client, error) {
	ts := httptest.NewServer(handler)
	config := client.Config{
		URL:         ts.URL,
		Credentials: tokenSource(token),
	}
	cli, err := client.New(config)
	return ts, cli, err
}

func Test_NewClient_Error(t *testing.T) {
	_, err := client.New(client.Config{
		URL: "udp://badurl",
	})
	if err == nil {
		t.Error("expected error from client.New")
	}
}

func Test_BearerCredential(t *testing.T) {
	var gotAuth, gotContentType string
	ts, cli, err := newClientWithToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"OK"}`)
	}), "sometoken")
	if err != nil {
		t.Fatal(err)
	}
	defer ts.Close()

	if _, err := cli.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
	if exp := "Bearer sometoken"; gotAuth != exp {
		t.Errorf("unexpected Authorization header: got %q exp %q", gotAuth, exp)
	}
	if exp := "application/json"; gotContentType != exp {
		t.Errorf("unexpected Content-Type header: got %q exp %q", gotContentType, exp)
	}
}

func Test_NoCredentialMeansUnauthenticated(t *testing.T) {
	var gotAuth string
	var sawHeader bool
	ts, cli, err := newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"OK"}`)
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer ts.Close()

	if _, err := cli.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sawHeader {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func Test_ErrorNormalization(t *testing.T) {
	testCases := []struct {
		name    string
		code    int
		body    string
		expMsg  string
		expCode int
	}{
		{
			name:    "message field",
			code:    http.StatusUnauthorized,
			body:    `{"status":"error","message":"token expired"}`,
			expMsg:  "token expired",
			expCode: http.StatusUnauthorized,
		},
		{
			name:    "error field",
			code:    http.StatusBadRequest,
			body:    `{"error":"Failed to get group"}`,
			expMsg:  "Failed to get group",
			expCode: http.StatusBadRequest,
		},
		{
			name:    "message preferred over error",
			code:    http.StatusForbidden,
			body:    `{"message":"no","error":"other"}`,
			expMsg:  "no",
			expCode: http.StatusForbidden,
		},
		{
			name:    "non-string error field",
			code:    http.StatusInternalServerError,
			body:    `{"status":"error","error":{"cause":"db"}}`,
			expMsg:  "HTTP 500",
			expCode: http.StatusInternalServerError,
		},
		{
			name:    "unparseable body",
			code:    http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			expMsg:  "HTTP 502",
			expCode: http.StatusBadGateway,
		},
		{
			name:    "empty body",
			code:    http.StatusNotFound,
			body:    ``,
			expMsg:  "HTTP 404",
			expCode: http.StatusNotFound,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts, cli, err := newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				fmt.Fprint(w, tc.body)
			}))
			if err != nil {
				t.Fatal(err)
			}
			defer ts.Close()

			_, err = cli.ListUsers(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			apiErr, ok := err.(*client.Error)
			if !ok {
				t.Fatalf("expected *client.Error, got %T: %v", err, err)
			}
			if apiErr.Code != tc.expCode {
				t.Errorf("unexpected code: got %d exp %d", apiErr.Code, tc.expCode)
			}
			if apiErr.Error() != tc.expMsg {
				t.Errorf("unexpected message: got %q exp %q", apiErr.Error(), tc.expMsg)
			}
		})
	}
}

func Test_GenerateCaptcha(t *testing.T) {
	ts, cli, err := newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/captcha/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"status":"success","data":{"id":"cap-1","b64":"aW1hZ2U="}}`)
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer ts.Close()

	challenge, err := cli.GenerateCaptcha(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	exp := client.CaptchaChallenge{ID: "cap-1", B64: "aW1hZ2U="}
	if challenge != exp {
		t.Errorf("unexpected challenge: got %+v exp %+v", challenge, exp)
	}
}

func Test_Signin(t *testing.T) {
	ts, cli, err := newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v0/users/signin" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("captcha_id"); got != "cap-1" {
			t.Errorf("unexpected captcha_id: %q", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		exp := map[string]string{
			"username":       "alice",
			"password":       "hunter2",
			"captcha_answer": "42",
		}
		if !reflect.DeepEqual(body, exp) {
			t.Errorf("unexpected body: got %v exp %v", body, exp)
		}
		fmt.Fprint(w, `{"status":"OK","token":"the-token"}`)
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer ts.Close()

	token, err := cli.Signin(context.Background(), "alice", "hunter2", "cap-1", "42")
	if err != nil {
		t.Fatal(err)
	}
	if token != "the-token" {
		t.Errorf("unexpected token: %q", token)
	}
}

func Test_Me(t *testing.T) {
	ts, cli, err := newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/users/me" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"status":"OK","user":{"username":"alice","firstName":"Alice","lastName":"Doe","email":"a@example.com","mobile":"09120000000"},"user_id":"u-1"}`)
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer ts.Close()

	u, err := cli.Me(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	exp := client.User{
		ID:        "u-1",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Doe",
		Email:     "a@example.com",
		Mobile:    "09120000000",
	}
	if u != exp {
		t.Errorf("unexpected user: got %+v exp %+v", u, exp)
	}
}

func Test_ListAlerts(t *testing.T) {
	ts, cli, err := newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("status"); got != "firing" {
			t.Errorf("unexpected status: %q", got)
		}
		if got := q.Get("severity"); got != "critical" {
			t.Errorf("unexpected severity: %q", got)
		}
		if got := q.Get("limit"); got != "10" {
			t.Errorf("unexpected limit: %q", got)
		}
		if got := q.Get("page"); got != "2" {
			t.Errorf("unexpected page: %q", got)
		}
		fmt.Fprint(w, `{"status":"OK","alerts":[{"id":"a-1","name":"HighCPU","severity":"critical","status":"firing"}],"count":1}`)
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer ts.Close()

	alerts, err := cli.ListAlerts(context.Background(), client.ListAlertsOptions{
		Status:   "firing",
		Severity: "critical",
		Limit:    10,
		Page:     2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 1 || alerts[0].Name != "HighCPU" {
		t.Errorf("unexpected alerts: %+v", alerts)
	}
}

func Test_FiringCount(t *testing.T) {
	ts, cli, err := newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/alerts/firingCount" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		// The server spells the field "severites".
		fmt.Fprint(w, `{"status":"OK","severites":[{"severity":"critical","count":3},{"severity":"warning","count":1}]}`)
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer ts.Close()

	counts, err := cli.FiringCount(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	exp := []client.SeverityCount{
		{Severity: "critical", Count: 3},
		{Severity: "warning", Count: 1},
	}
	if !reflect.DeepEqual(counts, exp) {
		t.Errorf("unexpected counts: got %+v exp %+v", counts, exp)
	}
}

func Test_GroupUsers(t *testing.T) {
	ts, cli, err := newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v0/groups/g-1/users" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"status":"success","users":["u-1","u-2"]}`)
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer ts.Close()

	users, err := cli.GroupUsers(context.Background(), "g-1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(users, []string{"u-1", "u-2"}) {
		t.Errorf("unexpected users: %+v", users)
	}
}

func Test_UpdateProvider(t *testing.T) {
	testCases := []struct {
		name     string
		priority *int
		enabled  *bool
		expBody  map[string]interface{}
	}{
		{
			name:     "priority only",
			priority: intPtr(3),
			expBody:  map[string]interface{}{"name": "smtp", "priority": float64(3)},
		},
		{
			name:    "disable only",
			enabled: boolPtr(false),
			expBody: map[string]interface{}{"name": "smtp", "status": false},
		},
		{
			name:     "both",
			priority: intPtr(1),
			enabled:  boolPtr(true),
			expBody:  map[string]interface{}{"name": "smtp", "priority": float64(1), "status": true},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts, cli, err := newClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != "PUT" || r.URL.Path != "/v0/providers" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				var body map[string]interface{}
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatal(err)
				}
				if !reflect.DeepEqual(body, tc.expBody) {
					t.Errorf("unexpected body: got %v exp %v", body, tc.expBody)
				}
				fmt.Fprint(w, `{"status":"success"}`)
			}))
			if err != nil {
				t.Fatal(err)
			}
			defer ts.Close()

			if err := cli.UpdateProvider(context.Background(), "smtp", tc.priority, tc.enabled); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func Test_Timeout(t *testing.T) {
	done := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-done
	}))
	defer ts.Close()
	defer close(done)

	cli, err := client.New(client.Config{
		URL:     ts.URL,
		Timeout: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cli.Ping(context.Background()); err == nil {
		t.Error("expected timeout error")
	}
}

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }
