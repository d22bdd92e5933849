package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

// Run executes a single scenario from a JSON file against handler.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, handler, s)
	})
}

// RunDir runs every scenario in dir as a t.Run subtest, in file-name order.
// Scenario files that fail to parse are reported as test failures.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Errorf("%v", err)
	}
	if len(scenarios) == 0 {
		t.FailNow()
	}

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, handler, s)
		})
	}
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	var reqBody io.Reader
	if p := s.RequestBodyPath(); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("[%s] read request file %q: %v", s.Name, p, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req := httptest.NewRequest(s.RequestMethod, s.RequestURL, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)

	if p := s.ResponseBodyPath(); p != "" {
		expected, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("[%s] read response file %q: %v", s.Name, p, err)
			return
		}
		AssertJSONBody(t, s, expected, rec.Body.Bytes())
	}
}

// DumpScenario prints a one-glance summary of s. Handy while writing
// new scenario files.
func DumpScenario(w io.Writer, s *Scenario) {
	fmt.Fprintf(w, "Scenario: %s\n", s.Name)
	fmt.Fprintf(w, "  %s %s → %d\n", s.RequestMethod, s.RequestURL, s.ExpectedCode)
	fmt.Fprintf(w, "  requestFile:  %s\n", s.RequestFileName)
	fmt.Fprintf(w, "  responseFile: %s\n", s.ResponseFileName)
	if len(s.IgnoreFields) > 0 {
		fmt.Fprintf(w, "  ignore: %v\n", s.IgnoreFields)
	}
}
