package vkapi

import (
	"bytes"
	"context"
	"net/http"
	"reflect"
	"strings"
	"testing"
)

// recordingLogger captures warnings.
type recordingLogger struct {
	noopLogger
	warnings []string
}

func (r *recordingLogger) WarnObj(msg, _ string, _ interface{}) { r.warnings = append(r.warnings, msg) }

func TestGetFriendsProjectsNamesInOrder(t *testing.T) {
	stub := okResponse(`{"response":{"count":3,"items":[
		{"id":1,"first_name":"Ann","last_name":"Lee"},
		{"id":2,"first_name":"Boris","last_name":"Ivanov"},
		{"id":3,"first_name":"Chen","last_name":"Wu"}]}}`)
	client := New("tok", WithHTTPClient(stub), WithDiagnostics(nil))

	got := client.GetFriends(context.Background(), "42")
	want := []string{"Ann Lee", "Boris Ivanov", "Chen Wu"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GetFriends = %v, want %v", got, want)
	}
	if stub.url != DefaultBaseURL+MethodFriendsGet {
		t.Fatalf("url = %q", stub.url)
	}
	if stub.query["user_id"] != "42" || stub.query["fields"] != "first_name,last_name" {
		t.Fatalf("unexpected query %v", stub.query)
	}
}

func TestGetFriendsSingleEntry(t *testing.T) {
	stub := okResponse(`{"response":{"items":[{"first_name":"Ann","last_name":"Lee"}]}}`)
	client := New("tok", WithHTTPClient(stub))

	got := client.GetFriends(context.Background(), "1")
	if !reflect.DeepEqual(got, []string{"Ann Lee"}) {
		t.Fatalf("GetFriends = %v", got)
	}
}

func TestGetAlbumsProjectsTitles(t *testing.T) {
	stub := okResponse(`{"response":{"count":2,"items":[{"id":10,"title":"Summer"},{"id":11,"title":"Winter"}]}}`)
	client := New("tok", WithHTTPClient(stub))

	got := client.GetAlbums(context.Background(), "-5")
	if !reflect.DeepEqual(got, []string{"Summer", "Winter"}) {
		t.Fatalf("GetAlbums = %v", got)
	}
	if stub.url != DefaultBaseURL+MethodPhotosGetAlbums {
		t.Fatalf("url = %q", stub.url)
	}
	if stub.query["owner_id"] != "-5" {
		t.Fatalf("owner_id = %q", stub.query["owner_id"])
	}
}

func TestGetAlbumsDegradesOnAPIError(t *testing.T) {
	var diag bytes.Buffer
	log := &recordingLogger{}
	stub := okResponse(`{"error":{"error_msg":"Invalid token"}}`)
	client := New("tok", WithHTTPClient(stub), WithDiagnostics(&diag), WithLogger(log))

	got := client.GetAlbums(context.Background(), "1")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if !strings.Contains(diag.String(), "Invalid token") {
		t.Fatalf("diagnostic %q does not mention the API message", diag.String())
	}
	if diag.String() != "Error fetching albums: Invalid token\n" {
		t.Fatalf("diagnostic = %q", diag.String())
	}
	if len(log.warnings) != 1 {
		t.Fatalf("expected one warning, got %v", log.warnings)
	}
}

func TestConvenienceOperationsNeverFailOutward(t *testing.T) {
	failures := []*stubHTTPClient{
		okResponse(`{"error":{"error_msg":"Access denied"}}`),
		okResponse(`{"error":{}}`),
		{resp: stubResponse{statusCode: http.StatusInternalServerError}},
		{err: timeoutError{}},
		okResponse(`{"response":{"items":"not-a-list"}}`),
	}

	for _, stub := range failures {
		var diag bytes.Buffer
		client := New("tok", WithHTTPClient(stub), WithDiagnostics(&diag))

		if got := client.GetFriends(context.Background(), "1"); len(got) != 0 {
			t.Fatalf("GetFriends = %v, want empty", got)
		}
		if got := client.GetAlbums(context.Background(), "1"); len(got) != 0 {
			t.Fatalf("GetAlbums = %v, want empty", got)
		}
		if !strings.HasPrefix(diag.String(), "Error fetching friends: ") ||
			!strings.Contains(diag.String(), "Error fetching albums: ") {
			t.Fatalf("unexpected diagnostics %q", diag.String())
		}
	}
}

func TestFetchFriendsExposesFailure(t *testing.T) {
	client := New("tok", WithHTTPClient(okResponse(`{"error":{"error_msg":"Too many requests per second"}}`)))

	names, err := client.FetchFriends(context.Background(), "1")
	if names != nil {
		t.Fatalf("expected nil names, got %v", names)
	}
	if !IsAPIError(err) || err.Error() != "Too many requests per second" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestFetchFriendsEmptyListIsNotAnError(t *testing.T) {
	client := New("tok", WithHTTPClient(okResponse(`{"response":{"count":0,"items":[]}}`)))

	names, err := client.FetchFriends(context.Background(), "1")
	if err != nil {
		t.Fatalf("FetchFriends: %v", err)
	}
	if names == nil || len(names) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", names)
	}
}

func TestFetchAlbumsShapeMismatchIsAPIError(t *testing.T) {
	client := New("tok", WithHTTPClient(okResponse(`{"response":[1,2,3]}`)))

	_, err := client.FetchAlbums(context.Background(), "1")
	if !IsAPIError(err) || !strings.Contains(err.Error(), "decode photos.getAlbums payload") {
		t.Fatalf("unexpected error %v", err)
	}
}
