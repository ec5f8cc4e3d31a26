package s3storage_test

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"lastmile/internal/adapters/out/s3storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type putRequest struct {
	path        string
	contentType string
	body        []byte
}

// fakeS3 accepts PutObject calls and records them.
type fakeS3 struct {
	mu     sync.Mutex
	puts   []putRequest
	status int
}

func (f *fakeS3) Do(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	if req.Method == http.MethodPut && status == http.StatusOK {
		f.puts = append(f.puts, putRequest{
			path:        req.URL.Path,
			contentType: req.Header.Get("Content-Type"),
			body:        body,
		})
	}

	respBody := ""
	if status != http.StatusOK {
		respBody = `<?xml version="1.0"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Etag": {`"etag123"`}, "Content-Type": {"application/xml"}},
		Body:       io.NopCloser(strings.NewReader(respBody)),
		Request:    req,
	}, nil
}

func newStore(t *testing.T, fake *fakeS3, pathStyle bool) *s3storage.Store {
	t.Helper()
	store, err := s3storage.New(t.Context(), s3storage.Config{
		Bucket:          "proofs-bucket",
		Region:          "us-east-1",
		Endpoint:        "http://minio.local:9000",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       pathStyle,
		HTTPClient:      fake,
	})
	require.NoError(t, err)
	return store
}

func TestStore_Upload_PathStyle(t *testing.T) {
	fake := &fakeS3{}
	store := newStore(t, fake, true)

	proof, err := store.Upload(t.Context(), strings.NewReader("jpeg-bytes"), "door.jpg", "image/jpeg")

	require.NoError(t, err)
	assert.Regexp(t, `^proofs/[0-9a-f-]{36}/door\.jpg$`, proof.ExternalID)
	assert.Equal(t, "http://minio.local:9000/proofs-bucket/"+proof.ExternalID, proof.URL)

	require.Len(t, fake.puts, 1)
	assert.Equal(t, "/proofs-bucket/"+proof.ExternalID, fake.puts[0].path)
	assert.Equal(t, "image/jpeg", fake.puts[0].contentType)
	assert.True(t, bytes.Contains(fake.puts[0].body, []byte("jpeg-bytes")))
}

func TestStore_Upload_VirtualHostedURL(t *testing.T) {
	store := newStore(t, &fakeS3{}, false)

	proof, err := store.Upload(t.Context(), strings.NewReader("x"), "proof.png", "image/png")

	require.NoError(t, err)
	assert.Equal(t, "http://proofs-bucket.minio.local:9000/"+proof.ExternalID, proof.URL)
}

func TestStore_Upload_KeepsOnlyBaseName(t *testing.T) {
	store := newStore(t, &fakeS3{}, true)

	proof, err := store.Upload(t.Context(), strings.NewReader("x"), "../../etc/passwd", "")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(proof.ExternalID, "/passwd"))
	assert.NotContains(t, proof.ExternalID, "..")
}

func TestStore_Upload_UniqueKeys(t *testing.T) {
	store := newStore(t, &fakeS3{}, true)

	first, err := store.Upload(t.Context(), strings.NewReader("a"), "same.jpg", "image/jpeg")
	require.NoError(t, err)
	second, err := store.Upload(t.Context(), strings.NewReader("b"), "same.jpg", "image/jpeg")
	require.NoError(t, err)

	assert.NotEqual(t, first.ExternalID, second.ExternalID)
}

func TestStore_Upload_Rejections(t *testing.T) {
	store := newStore(t, &fakeS3{}, true)

	_, err := store.Upload(t.Context(), strings.NewReader("x"), "  ", "image/jpeg")
	require.ErrorIs(t, err, s3storage.ErrFilenameIsRequired)

	tooLarge := bytes.NewReader(make([]byte, s3storage.MaxProofSize+1))
	_, err = store.Upload(t.Context(), tooLarge, "big.jpg", "image/jpeg")
	require.ErrorIs(t, err, s3storage.ErrProofIsTooLarge)
}

func TestStore_Upload_PropagatesS3Errors(t *testing.T) {
	store := newStore(t, &fakeS3{status: http.StatusForbidden}, true)

	_, err := store.Upload(t.Context(), strings.NewReader("x"), "door.jpg", "image/jpeg")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload proof")
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := s3storage.New(t.Context(), s3storage.Config{})
	require.ErrorIs(t, err, s3storage.ErrBucketIsRequired)
}
