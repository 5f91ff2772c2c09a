// Command smoke_check logs in against a running deployment and verifies that
// the read endpoints answer with the {data, error} contract and consistent
// page totals.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

type target struct {
	Path     string `json:"path"`
	Status   int    `json:"status"`
	Paged    bool   `json:"paged"`
	Critical bool   `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type outcome struct {
	Target   target
	Status   int
	Duration time.Duration
	Problems []string
	Err      error
}

func (o outcome) ok() bool {
	return o.Err == nil && len(o.Problems) == 0
}

func main() {
	var (
		base        string
		email       string
		password    string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "API base URL including the prefix")
	flag.StringVar(&email, "email", os.Getenv("SMOKE_EMAIL"), "Admin email used to obtain a token")
	flag.StringVar(&password, "password", os.Getenv("SMOKE_PASSWORD"), "Admin password")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "smoke_check", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	logr, _ := zap.NewDevelopment()
	defer logr.Sync() //nolint:errcheck

	targets, err := loadTargets(targetsPath)
	if err != nil {
		logr.Fatal("failed to load targets", zap.Error(err))
	}

	client := &http.Client{Timeout: timeout}
	token := ""
	if email != "" {
		token, err = login(client, base, email, password)
		if err != nil {
			logr.Fatal("login failed", zap.Error(err))
		}
	}

	var results []outcome
	breaking := 0
	for _, t := range targets {
		res := check(client, base, token, t)
		if !res.ok() && t.Critical {
			breaking++
		}
		results = append(results, res)
	}

	printReport(results)
	fmt.Printf("Breaking failures: %d of %d targets\n", breaking, len(results))
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	for i := range file.Targets {
		if file.Targets[i].Status == 0 {
			file.Targets[i].Status = http.StatusOK
		}
	}
	return file.Targets, nil
}

func login(client *http.Client, base, email, password string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := client.Post(join(base, "/auth/login"), "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || body.Data.AccessToken == "" {
		return "", fmt.Errorf("login returned status %d", resp.StatusCode)
	}
	return body.Data.AccessToken, nil
}

func check(client *http.Client, base, token string, t target) outcome {
	res := outcome{Target: t}
	req, err := http.NewRequest(http.MethodGet, join(base, t.Path), nil)
	if err != nil {
		res.Err = err
		return res
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()
	res.Duration = time.Since(start)
	res.Status = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Err = fmt.Errorf("read body: %w", err)
		return res
	}
	if resp.StatusCode != t.Status {
		res.Problems = append(res.Problems, fmt.Sprintf("expected status %d", t.Status))
	}
	res.Problems = append(res.Problems, inspect(body, t.Paged)...)
	return res
}

// inspect validates a read body. Exactly one of data and error may be set,
// and paged data must carry totals consistent with its rows.
func inspect(body []byte, paged bool) []string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return []string{"body is not a JSON object"}
	}
	var problems []string
	for key := range envelope {
		if key != "data" && key != "error" {
			problems = append(problems, fmt.Sprintf("unexpected key %q", key))
		}
	}
	data, hasData := envelope["data"]
	errField, hasErr := envelope["error"]
	if !hasData || !hasErr {
		return append(problems, "missing data or error key")
	}
	dataNull := isNull(data)
	errNull := isNull(errField)
	if !dataNull && !errNull {
		problems = append(problems, "data and error both set")
	}
	if !paged || dataNull {
		return problems
	}

	var page struct {
		Rows      []json.RawMessage `json:"rows"`
		Count     *int              `json:"count"`
		PageCount *int              `json:"numberOfPages"`
	}
	if err := json.Unmarshal(data, &page); err != nil || page.Rows == nil || page.Count == nil || page.PageCount == nil {
		return append(problems, "data is not a page")
	}
	if len(page.Rows) > *page.Count {
		problems = append(problems, "more rows than count")
	}
	if (*page.PageCount == 0) != (*page.Count == 0) {
		problems = append(problems, "numberOfPages and count disagree on emptiness")
	}
	return problems
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func join(base, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + path
}

func printReport(results []outcome) {
	fmt.Println("Smoke Check Report")
	fmt.Println("==================")
	for _, res := range results {
		status := "OK"
		switch {
		case res.Err != nil:
			status = "ERROR"
		case len(res.Problems) > 0:
			status = "FAIL"
		}
		fmt.Printf("[%s] GET %s -> %d (%s)\n", status, res.Target.Path, res.Status, res.Duration)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
		}
		for _, p := range res.Problems {
			fmt.Printf("  - %s\n", p)
		}
	}
}
