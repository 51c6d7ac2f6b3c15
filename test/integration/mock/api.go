package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// FitnessAPIMock is a scriptable stand-in for the fitness REST API. Responses
// are keyed by method+path; a path segment "*" matches any value.
type FitnessAPIMock struct {
	mu                    sync.Mutex
	server                *httptest.Server
	headersReceived       map[string]map[int]map[string]string
	queriesReceived       map[string]map[int]map[string]string
	requestsReceived      map[string]map[int]map[string]any
	responseMap           map[string]map[int]any
	defaultResponseMap    map[string]any
	responseStatus        map[string]map[int]int
	defaultResponseStatus map[string]int
}

func NewFitnessAPIMock() *FitnessAPIMock {
	a := &FitnessAPIMock{}
	a.reset()
	return a
}

func (a *FitnessAPIMock) reset() {
	a.headersReceived = map[string]map[int]map[string]string{}
	a.queriesReceived = map[string]map[int]map[string]string{}
	a.requestsReceived = map[string]map[int]map[string]any{}
	a.responseMap = map[string]map[int]any{}
	a.defaultResponseMap = map[string]any{}
	a.responseStatus = map[string]map[int]int{}
	a.defaultResponseStatus = map[string]int{}
}

func (a *FitnessAPIMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

func (a *FitnessAPIMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *FitnessAPIMock) GetUrl() string {
	return a.server.URL
}

func (a *FitnessAPIMock) handle(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := r.Method + r.URL.Path
	index := len(a.requestsReceived[key])

	body, _ := io.ReadAll(r.Body)
	var request map[string]any
	_ = json.Unmarshal(body, &request)
	if request == nil {
		request = map[string]any{}
	}

	if a.requestsReceived[key] == nil {
		a.requestsReceived[key] = map[int]map[string]any{}
		a.headersReceived[key] = map[int]map[string]string{}
		a.queriesReceived[key] = map[int]map[string]string{}
	}
	a.requestsReceived[key][index] = request

	a.headersReceived[key][index] = map[string]string{}
	for name, value := range r.Header {
		a.headersReceived[key][index][name] = value[0]
	}

	a.queriesReceived[key][index] = map[string]string{}
	for name, value := range r.URL.Query() {
		a.queriesReceived[key][index][name] = value[0]
	}

	status := a.getResponseStatus(r.Method, r.URL.Path, index)
	response, _ := json.Marshal(a.getResponseBody(r.Method, r.URL.Path, index))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// SetResponse scripts the index-th response for method+path. Index -1 sets
// the default used when no indexed response matches.
func (a *FitnessAPIMock) SetResponse(index int, method, path string, status int, response any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	if index == -1 {
		a.defaultResponseStatus[key] = status
		a.defaultResponseMap[key] = response
		return
	}

	if a.responseMap[key] == nil {
		a.responseMap[key] = map[int]any{}
		a.responseStatus[key] = map[int]int{}
	}
	a.responseMap[key][index] = response
	a.responseStatus[key][index] = status
}

// RequestCount returns how many requests reached method+path.
func (a *FitnessAPIMock) RequestCount(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.requestsReceived[method+path])
}

func (a *FitnessAPIMock) GetRequestBody(method, path string, index int) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.requestsReceived[method+path][index]
}

func (a *FitnessAPIMock) GetRequestHeaders(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.headersReceived[method+path][index]
}

func (a *FitnessAPIMock) GetRequestQueries(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.queriesReceived[method+path][index]
}

// ClearResponses drops every scripted response and recorded request.
func (a *FitnessAPIMock) ClearResponses() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.reset()
}

func (a *FitnessAPIMock) getResponseBody(method, path string, index int) any {
	if key := findMatchingKey(keysOf(a.responseMap), method, path); key != "" {
		if response, ok := a.responseMap[key][index]; ok && response != nil {
			return response
		}
	}
	if key := findMatchingKey(keysOf(a.defaultResponseMap), method, path); key != "" {
		if response := a.defaultResponseMap[key]; response != nil {
			return response
		}
	}
	return map[string]any{}
}

func (a *FitnessAPIMock) getResponseStatus(method, path string, index int) int {
	if key := findMatchingKey(keysOf(a.responseStatus), method, path); key != "" {
		if status := a.responseStatus[key][index]; status != 0 {
			return status
		}
	}
	if key := findMatchingKey(keysOf(a.defaultResponseStatus), method, path); key != "" {
		if status := a.defaultResponseStatus[key]; status != 0 {
			return status
		}
	}

	// Return 200 as a safe default to prevent panic from WriteHeader(0)
	return http.StatusOK
}

func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")
	if len(patternParts) != len(pathParts) {
		return false
	}

	for i := range patternParts {
		if patternParts[i] != "*" && patternParts[i] != pathParts[i] {
			return false
		}
	}
	return true
}

func findMatchingKey(keys []string, method, path string) string {
	exactKey := method + path
	for _, key := range keys {
		if key == exactKey {
			return key
		}
	}

	for _, key := range keys {
		if strings.HasPrefix(key, method) && matchPath(strings.TrimPrefix(key, method), path) {
			return key
		}
	}
	return ""
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
