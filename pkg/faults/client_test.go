package faults

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAddFault_PostsArrayAndReturnsID(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"f-123","service":"s3","region":"us-east-1","probability":1}]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	fault, err := client.AddFault(context.Background(), FaultSpec{
		Service:     "s3",
		Region:      "us-east-1",
		Probability: 1.0,
		Error:       &ErrorSpec{StatusCode: 503, Code: "ServiceUnavailable"},
	})
	if err != nil {
		t.Fatalf("AddFault() error = %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", gotMethod)
	}
	if gotPath != FaultsPath {
		t.Errorf("path = %q, want %q", gotPath, FaultsPath)
	}

	// The chaos API expects an array of fault specs, not a bare object.
	var specs []FaultSpec
	if err := json.Unmarshal([]byte(gotBody), &specs); err != nil {
		t.Fatalf("request body is not a JSON array: %v (body %q)", err, gotBody)
	}
	if len(specs) != 1 || specs[0].Service != "s3" {
		t.Errorf("request body = %q, want one s3 fault spec", gotBody)
	}

	if fault.ID != "f-123" {
		t.Errorf("ID = %q, want f-123", fault.ID)
	}
}

func TestAddFault_MissingIDIsError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	_, err := client.AddFault(context.Background(), FaultSpec{Service: "s3"})
	if err == nil {
		t.Fatal("AddFault() should fail when the response carries no fault ID")
	}
}

func TestAddFault_ServerError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal","message":"boom"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	_, err := client.AddFault(context.Background(), FaultSpec{Service: "s3"})
	if err == nil {
		t.Fatal("AddFault() should return error for 500 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Message != "boom" {
		t.Errorf("Message = %q, want boom", apiErr.Message)
	}
}

func TestAddFault_Timeout(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, WithTimeout(20*time.Millisecond))
	_, err := client.AddFault(context.Background(), FaultSpec{Service: "s3"})
	if err == nil {
		t.Fatal("AddFault() should fail on timeout")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.ErrorCode != "connection_error" {
		t.Errorf("ErrorCode = %q, want connection_error", apiErr.ErrorCode)
	}
}

func TestDeleteFault_SuccessStatuses(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusOK, http.StatusNoContent} {
		var gotPath string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.WriteHeader(status)
		}))

		client := NewClient(ts.URL)
		err := client.DeleteFault(context.Background(), "f-1")
		ts.Close()

		if err != nil {
			t.Errorf("DeleteFault() with %d response: error = %v", status, err)
		}
		if gotPath != FaultsPath+"/f-1" {
			t.Errorf("path = %q, want %s/f-1", gotPath, FaultsPath)
		}
	}
}

func TestDeleteFault_NotFound(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	if err := client.DeleteFault(context.Background(), "gone"); err == nil {
		t.Fatal("DeleteFault() should return error for 404 response")
	}
}

func TestClearFaults_PostsEmptyArray(t *testing.T) {
	t.Parallel()

	var gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	if err := client.ClearFaults(context.Background()); err != nil {
		t.Fatalf("ClearFaults() error = %v", err)
	}
	if gotBody != "[]" {
		t.Errorf("body = %q, want []", gotBody)
	}
}

func TestListFaults(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"a","service":"s3","region":"us-east-1","probability":1,"error":{"statusCode":503,"code":"ServiceUnavailable"}},
			{"id":"b","service":"dynamodb","probability":0.5}
		]`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	list, err := client.ListFaults(context.Background())
	if err != nil {
		t.Fatalf("ListFaults() error = %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != "a" || list[0].Target() != "s3/us-east-1" {
		t.Errorf("first fault = %+v, want id a targeting s3/us-east-1", list[0])
	}
	if list[1].Target() != "dynamodb" {
		t.Errorf("Target() = %q, want dynamodb", list[1].Target())
	}
}

func TestEffectsRoundTrip(t *testing.T) {
	t.Parallel()

	var current Effects
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+EffectsPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(current)
	})
	mux.HandleFunc("POST "+EffectsPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&current)
		json.NewEncoder(w).Encode(current)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := NewClient(ts.URL)
	if err := client.SetEffects(context.Background(), Effects{Latency: 2000}); err != nil {
		t.Fatalf("SetEffects() error = %v", err)
	}

	got, err := client.GetEffects(context.Background())
	if err != nil {
		t.Fatalf("GetEffects() error = %v", err)
	}
	if got.Latency != 2000 {
		t.Errorf("Latency = %d, want 2000", got.Latency)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != HealthPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"services":{"s3":"running","dynamodb":"available"}}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL)
	services, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if services["s3"] != "running" {
		t.Errorf("s3 = %q, want running", services["s3"])
	}
}
