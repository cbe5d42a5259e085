package persist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fairwaylab/greenside/internal/editor/document"
	"github.com/fairwaylab/greenside/pkg/math"
)

func TestSaveMapSendsNameAndDocument(t *testing.T) {
	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/save-map" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var err error
		if got, err = io.ReadAll(r.Body); err != nil {
			t.Errorf("read request: %v", err)
		}
		json.NewEncoder(w).Encode(SaveResponse{Success: true, Message: "ok"})
	}))
	defer srv.Close()

	doc := document.New("sandtrap")
	doc.AddWall(document.Wall{Position: math.Vec3{X: 2, Y: 1}, Size: document.DefaultWallSize})

	c := NewClient(srv.URL)
	if err := c.SaveMap(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	// The body is the map document itself, name included.
	sent, err := document.FromJSON(got)
	if err != nil {
		t.Fatalf("sent body is not a map document: %v", err)
	}
	if sent.Name != "sandtrap" {
		t.Errorf("saved name: %q", sent.Name)
	}
	if len(sent.Walls) != 1 {
		t.Errorf("sent walls: %d", len(sent.Walls))
	}
}

func TestSaveMapSurfacesServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(SaveResponse{Success: false, Message: "disk full"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.SaveMap(context.Background(), document.New("doomed"))
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestListMaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/maps" {
			t.Errorf("path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]MapInfo{
			{Name: "alpha", FileName: "alpha.json", LastModified: time.Now()},
			{Name: "beta", FileName: "beta.json", LastModified: time.Now()},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	maps, err := c.ListMaps(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(maps) != 2 || maps[0].Name != "alpha" {
		t.Errorf("maps: %+v", maps)
	}
}

func TestLoadMapParsesDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/map/links" {
			t.Errorf("path: %s", r.URL.Path)
		}
		doc := document.New("links")
		doc.AddRamp(document.Ramp{Size: document.DefaultRampSize, Angle: 20})
		data, _ := doc.ToJSON()
		w.Write(data)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	doc, err := c.LoadMap(context.Background(), "links")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "links" || len(doc.Ramps) != 1 {
		t.Errorf("loaded: name=%q ramps=%d", doc.Name, len(doc.Ramps))
	}
}

func TestLoadMapNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.LoadMap(context.Background(), "nope")
	if !errors.Is(err, ErrMapNotFound) {
		t.Errorf("error: %v", err)
	}
}

func TestPlaytestSavesUnderReservedName(t *testing.T) {
	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = io.ReadAll(r.Body)
		json.NewEncoder(w).Encode(SaveResponse{Success: true})
	}))
	defer srv.Close()

	doc := document.New("work in progress")
	c := NewClient(srv.URL)
	url, err := c.Playtest(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	sent, err := document.FromJSON(got)
	if err != nil {
		t.Fatalf("sent body is not a map document: %v", err)
	}
	if sent.Name != PlaytestName {
		t.Errorf("playtest saved as %q", sent.Name)
	}
	if doc.Name != "work in progress" {
		t.Errorf("playtest renamed the live document to %q", doc.Name)
	}
	want := srv.URL + "/index.html?playtest=true&map=" + PlaytestName
	if url != want {
		t.Errorf("playtest url: %q, want %q", url, want)
	}
}
