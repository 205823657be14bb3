package adapters

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/genai"
)

// --- Mocks ---

// mockGenerativeClient は GenerativeClient のテスト用モックなのだ。
type mockGenerativeClient struct {
	generateTextFunc  func(ctx context.Context, prompt string) (string, error)
	generateImageFunc func(ctx context.Context, prompt string) ([]byte, string, error)
	generatePartsFunc func(ctx context.Context, parts []*genai.Part, seed *int64) ([]byte, string, error)

	imageCalls int
	partsCalls int
	lastParts  []*genai.Part
}

func (m *mockGenerativeClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if m.generateTextFunc != nil {
		return m.generateTextFunc(ctx, prompt)
	}
	return "", nil
}

func (m *mockGenerativeClient) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	m.imageCalls++
	if m.generateImageFunc != nil {
		return m.generateImageFunc(ctx, prompt)
	}
	return []byte("fake-image"), "image/jpeg", nil
}

func (m *mockGenerativeClient) GenerateImageWithParts(ctx context.Context, parts []*genai.Part, seed *int64) ([]byte, string, error) {
	m.partsCalls++
	m.lastParts = parts
	if m.generatePartsFunc != nil {
		return m.generatePartsFunc(ctx, parts, seed)
	}
	return []byte("fake-image"), "image/png", nil
}

func (m *mockGenerativeClient) NewChatSession(ctx context.Context, systemInstruction string) (ChatSession, error) {
	return nil, nil
}

// mockHTTPClient は httpkit.ClientInterface を実装します。
type mockHTTPClient struct {
	data     []byte
	err      error
	safeFunc func(urlStr string) (bool, error)
	calls    int
}

var _ httpkit.ClientInterface = (*mockHTTPClient)(nil)

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

func (m *mockHTTPClient) IsSafeURL(urlStr string) (bool, error) {
	if m.safeFunc != nil {
		return m.safeFunc(urlStr)
	}
	return true, nil
}

// インターフェースを満たすための空実装群なのだ
func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return nil, nil
}

func (m *mockHTTPClient) DoRequest(req *http.Request) ([]byte, error) {
	return nil, nil
}

func (m *mockHTTPClient) FetchAndDecodeJSON(ctx context.Context, url string, v any) error {
	return nil
}

func (m *mockHTTPClient) PostJSONAndFetchBytes(ctx context.Context, url string, data any) ([]byte, error) {
	return nil, nil
}

func (m *mockHTTPClient) PostRawBodyAndFetchBytes(ctx context.Context, url string, body []byte, contentType string) ([]byte, error) {
	return nil, nil
}

func (m *mockHTTPClient) IsSecureServiceURL(serviceURL string) bool {
	return true
}

type mockReader struct {
	data  []byte
	err   error
	calls int
}

var _ remoteio.InputReader = (*mockReader)(nil)

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return nil
}

type mockCache struct {
	data map[string]any
}

func (m *mockCache) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value any, d time.Duration) {
	m.data[key] = value
}
