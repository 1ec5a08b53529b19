package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amitbasuri/smartbin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCamera_Capture(t *testing.T) {
	frame := []byte{0xff, 0xd8, 0xff, 0xe0, 'j', 'p', 'e', 'g'}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(frame)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cam := NewHTTPCamera(srv.URL, dir, srv.Client())
	cam.now = func() time.Time { return time.Date(2025, 6, 1, 14, 3, 9, 0, time.UTC) }

	path, err := cam.Capture(context.Background())
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "item_20250601_140309_"))
	assert.True(t, strings.HasSuffix(path, ".jpg"))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, frame, written)
}

func TestHTTPCamera_CaptureFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cam := NewHTTPCamera(srv.URL, t.TempDir(), srv.Client())
	_, err := cam.Capture(context.Background())
	assert.ErrorContains(t, err, "status 503")
}

func TestVisionDetector_DetectLabels(t *testing.T) {
	image := filepath.Join(t.TempDir(), "frame.jpg")
	require.NoError(t, os.WriteFile(image, []byte("pixels"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var req visionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Requests, 1)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("pixels")), req.Requests[0].Image.Content)
		assert.Equal(t, []visionFeature{{Type: "LABEL_DETECTION", MaxResults: 3}}, req.Requests[0].Features)

		_, _ = w.Write([]byte(`{"responses":[{"labelAnnotations":[
			{"description":"Bottle","score":0.97},
			{"description":"Plastic","score":0.91}
		]}]}`))
	}))
	defer srv.Close()

	d := NewVisionDetector(srv.URL, "secret", 3, srv.Client())
	labels, err := d.DetectLabels(context.Background(), image)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bottle", "Plastic"}, labels)
}

func TestVisionDetector_ErrorPayload(t *testing.T) {
	image := filepath.Join(t.TempDir(), "frame.jpg")
	require.NoError(t, os.WriteFile(image, []byte("pixels"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"responses":[{"error":{"code":3,"message":"Bad image data."}}]}`))
	}))
	defer srv.Close()

	d := NewVisionDetector(srv.URL, "", 0, srv.Client())
	_, err := d.DetectLabels(context.Background(), image)
	assert.ErrorContains(t, err, "Bad image data.")
}

func TestLlamaAnalyzer_Analyze(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "json object is kept",
			content: ` {"category":"recyclable","decomposition_time":"450 years"} `,
			want:    `{"category":"recyclable","decomposition_time":"450 years"}`,
		},
		{
			name:    "free text is wrapped",
			content: "This is recyclable plastic.",
			want:    `{"analysis":"This is recyclable plastic."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/completion", r.URL.Path)

				var req map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Contains(t, req["prompt"], "bottle, cap")
				assert.EqualValues(t, 128, req["n_predict"])

				_ = json.NewEncoder(w).Encode(map[string]string{"content": tt.content})
			}))
			defer srv.Close()

			a := NewLlamaAnalyzer(srv.URL+"/", 128, srv.Client())
			got, err := a.Analyze(context.Background(), []string{"bottle", "cap"})
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestParseAnalysis(t *testing.T) {
	assert.JSONEq(t, `{"a":1}`, string(ParseAnalysis(`{"a":1}`)))
	assert.JSONEq(t, `{"analysis":"[1,2]"}`, string(ParseAnalysis(`[1,2]`)))
	assert.JSONEq(t, `{"analysis":"{broken"}`, string(ParseAnalysis(`{broken`)))
}

type fakeCamera struct {
	path string
	err  error
}

func (f *fakeCamera) Capture(ctx context.Context) (string, error) { return f.path, f.err }

type fakeDetector struct {
	labels []string
	err    error
}

func (f *fakeDetector) DetectLabels(ctx context.Context, imagePath string) ([]string, error) {
	return f.labels, f.err
}

type fakeAnalyzer struct {
	analysis json.RawMessage
	err      error
	block    bool
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, objects []string) (json.RawMessage, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.analysis, f.err
}

type fakeCreator struct {
	got *models.CreateItemRequest
}

func (f *fakeCreator) CreateItem(ctx context.Context, req models.CreateItemRequest) (*models.Item, error) {
	f.got = &req
	status := models.AnalysisComplete
	if req.Analysis == nil {
		status = models.AnalysisPending
	}
	return &models.Item{
		ID:              1,
		ImagePath:       req.ImagePath,
		DetectedObjects: req.DetectedObjects,
		Analysis:        req.Analysis,
		Category:        req.Category,
		AnalysisStatus:  status,
	}, nil
}

func TestProcessor_ProcessNewItem(t *testing.T) {
	store := &fakeCreator{}
	p := NewProcessor(
		&fakeCamera{path: "/img/x.jpg"},
		&fakeDetector{labels: []string{"banana peel"}},
		&fakeAnalyzer{analysis: json.RawMessage(`{"category":"Compostable"}`)},
		store,
		Config{AnalysisTimeout: time.Second, MaxRetries: 2},
	)

	item, err := p.ProcessNewItem(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.AnalysisComplete, item.AnalysisStatus)
	require.NotNil(t, store.got.Category)
	assert.Equal(t, models.CategoryCompostable, *store.got.Category)
	assert.Equal(t, 2, store.got.MaxRetries)
	assert.Equal(t, 1, store.got.TimeoutSeconds)
	assert.Nil(t, store.got.AnalysisError)
}

func TestProcessor_AnalysisTimeoutStoresPending(t *testing.T) {
	store := &fakeCreator{}
	p := NewProcessor(
		&fakeCamera{path: "/img/x.jpg"},
		&fakeDetector{labels: []string{"bottle"}},
		&fakeAnalyzer{block: true},
		store,
		Config{AnalysisTimeout: 20 * time.Millisecond},
	)

	item, err := p.ProcessNewItem(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.AnalysisPending, item.AnalysisStatus)
	assert.Nil(t, store.got.Analysis)
	require.NotNil(t, store.got.AnalysisError)
	assert.Contains(t, *store.got.AnalysisError, "deadline exceeded")
}

func TestProcessor_Failures(t *testing.T) {
	t.Run("capture", func(t *testing.T) {
		p := NewProcessor(&fakeCamera{err: errors.New("no frame")}, &fakeDetector{}, &fakeAnalyzer{}, &fakeCreator{}, Config{})
		_, err := p.ProcessNewItem(context.Background())
		assert.ErrorIs(t, err, ErrCaptureFailed)
	})

	t.Run("nothing detected", func(t *testing.T) {
		store := &fakeCreator{}
		p := NewProcessor(&fakeCamera{path: "/img/x.jpg"}, &fakeDetector{labels: []string{}}, &fakeAnalyzer{}, store, Config{})
		_, err := p.ProcessNewItem(context.Background())
		assert.ErrorIs(t, err, ErrNoObjects)
		assert.Nil(t, store.got)
	})

	t.Run("detector error", func(t *testing.T) {
		boom := errors.New("quota exceeded")
		p := NewProcessor(&fakeCamera{path: "/img/x.jpg"}, &fakeDetector{err: boom}, &fakeAnalyzer{}, &fakeCreator{}, Config{})
		_, err := p.ProcessNewItem(context.Background())
		assert.ErrorIs(t, err, boom)
	})
}
