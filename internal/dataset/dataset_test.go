package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lamim/answer-api-bench/internal/providers"
)

func sampleRows() []Row {
	return Build([]providers.QueryResponses{
		{
			Query: "how many offices does Acme have?",
			Responses: []providers.Response{
				{
					APIName: "exa",
					Success: true,
					ResponseData: map[string]interface{}{
						"answer": "Acme has 42 offices.",
						"sources": []interface{}{
							map[string]interface{}{"url": "https://acme.com/about"},
							"https://en.wikipedia.org/wiki/Acme",
						},
					},
					ResponseTimeSeconds: 0.75,
				},
				{
					APIName:             "tavily",
					Success:             false,
					Error:               "request timed out after 120s",
					ResponseTimeSeconds: 120.0,
				},
			},
		},
		{
			Query: "who founded Acme?",
			Responses: []providers.Response{
				{
					APIName:             "exa",
					Success:             true,
					ResponseData:        map[string]interface{}{"answer": "Jane Doe founded Acme."},
					ResponseTimeSeconds: 0.5,
				},
			},
		},
	})
}

func TestBuildExtractsAnswersAndSources(t *testing.T) {
	rows := sampleRows()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	exa := rows[0].PerAPI["exa"]
	if exa.Answer != "Acme has 42 offices." {
		t.Errorf("answer = %q", exa.Answer)
	}
	if exa.NumSources != 2 {
		t.Errorf("num sources = %d, want 2", exa.NumSources)
	}
	if len(exa.SourceURLs) != 2 || exa.SourceURLs[1] != "https://en.wikipedia.org/wiki/Acme" {
		t.Errorf("source urls = %v", exa.SourceURLs)
	}

	tavily := rows[0].PerAPI["tavily"]
	if tavily.Success {
		t.Error("failed response marked successful")
	}
	if !tavily.TimedOut {
		t.Error("timed-out error not flagged as timeout")
	}
	if tavily.Answer != "" || tavily.NumSources != 0 {
		t.Error("failed response should carry no answer or sources")
	}

	if rows[0].QueryLength != len(rows[0].Query) {
		t.Errorf("query length = %d, want %d", rows[0].QueryLength, len(rows[0].Query))
	}
}

func TestIsTimeout(t *testing.T) {
	cases := map[string]bool{
		"request timed out after 120s": true,
		"Client.Timeout exceeded":      true,
		"connection refused":           false,
		"":                             false,
	}
	for msg, want := range cases {
		if got := IsTimeout(msg); got != want {
			t.Errorf("IsTimeout(%q) = %v, want %v", msg, got, want)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	rows := sampleRows()
	apis := APIs(rows)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, apis); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadCSV(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("got %d rows, want %d", len(got), len(rows))
	}

	exa := got[0].PerAPI["exa"]
	if !exa.Success || exa.Answer != "Acme has 42 offices." {
		t.Errorf("exa cell = %+v", exa)
	}
	if exa.ResponseTime != 0.75 {
		t.Errorf("response time = %f, want 0.75", exa.ResponseTime)
	}
	if len(exa.SourceURLs) != 2 {
		t.Errorf("source urls = %v", exa.SourceURLs)
	}

	tavily := got[0].PerAPI["tavily"]
	if tavily.Success || !tavily.TimedOut {
		t.Errorf("tavily cell = %+v", tavily)
	}

	// Second query never hit tavily; its cell reads back as a failure.
	if got[1].PerAPI["tavily"].Success {
		t.Error("absent API should read back unsuccessful")
	}
}

func TestReadCSVToleratesMissingColumns(t *testing.T) {
	csvText := "query,query_length,exa_success,exa_response_time_s\n" +
		"who founded Acme?,17,true,0.5\n"

	rows, err := ReadCSV(strings.NewReader(csvText))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	exa := rows[0].PerAPI["exa"]
	if !exa.Success || exa.ResponseTime != 0.5 {
		t.Errorf("exa cell = %+v", exa)
	}
	if exa.Answer != "" || exa.NumSources != 0 {
		t.Errorf("missing columns should yield zero values, got %+v", exa)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestAPIsSortedUnion(t *testing.T) {
	rows := sampleRows()
	apis := APIs(rows)
	want := []string{"exa", "tavily"}
	if len(apis) != len(want) {
		t.Fatalf("apis = %v, want %v", apis, want)
	}
	for i := range want {
		if apis[i] != want[i] {
			t.Fatalf("apis = %v, want %v", apis, want)
		}
	}
}
