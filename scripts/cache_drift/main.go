package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/fee-tracker-console/internal/models"
)

type drift struct {
	ID     int64
	Kind   string
	Cached models.Amount
	Remote models.Amount
}

func main() {
	var (
		consoleBase string
		backendBase string
		apiPrefix   string
		viewID      string
		timeout     time.Duration
	)

	flag.StringVar(&consoleBase, "console-base", "http://localhost:8080", "Console base URL")
	flag.StringVar(&backendBase, "backend-base", "https://backendd-8.onrender.com", "Fee service base URL")
	flag.StringVar(&apiPrefix, "api-prefix", "/api/v1", "Console API prefix")
	flag.StringVar(&viewID, "view", "", "Mounted student view to inspect; a temporary view is mounted when empty")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}
	console := strings.TrimRight(consoleBase, "/") + apiPrefix

	if viewID == "" {
		id, err := mountView(client, console)
		if err != nil {
			log.Fatalf("failed to mount view: %v", err)
		}
		viewID = id
		defer unmountView(client, console, viewID)
	}

	cachedStart := time.Now()
	cached, err := fetchStudents(client, console+"/views/students/"+viewID+"/export")
	if err != nil {
		log.Fatalf("failed to read view cache: %v", err)
	}
	cachedDur := time.Since(cachedStart)

	remoteStart := time.Now()
	remote, err := fetchStudents(client, strings.TrimRight(backendBase, "/")+"/students/fees/")
	if err != nil {
		log.Fatalf("failed to read fee service: %v", err)
	}
	remoteDur := time.Since(remoteStart)

	drifts := compare(cached, remote)
	printReport(viewID, len(cached), len(remote), cachedDur, remoteDur, drifts)
	if len(drifts) > 0 {
		os.Exit(1)
	}
}

func mountView(client *http.Client, console string) (string, error) {
	resp, err := client.Post(console+"/views/students", "application/json", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var envelope struct {
		Data struct {
			ViewID string `json:"view_id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}
	if envelope.Data.ViewID == "" {
		return "", errors.New("mount response carried no view id")
	}
	return envelope.Data.ViewID, nil
}

func unmountView(client *http.Client, console, viewID string) {
	req, err := http.NewRequest(http.MethodDelete, console+"/views/students/"+viewID, nil)
	if err != nil {
		return
	}
	if resp, err := client.Do(req); err == nil {
		resp.Body.Close()
	}
}

func fetchStudents(client *http.Client, url string) ([]models.Student, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s: status %d", url, resp.StatusCode)
	}
	var students []models.Student
	if err := json.Unmarshal(body, &students); err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return students, nil
}

func compare(cached, remote []models.Student) []drift {
	remoteByID := make(map[int64]models.Student, len(remote))
	for _, s := range remote {
		remoteByID[s.ID] = s
	}

	var drifts []drift
	seen := make(map[int64]struct{}, len(cached))
	for _, c := range cached {
		seen[c.ID] = struct{}{}
		r, ok := remoteByID[c.ID]
		if !ok {
			drifts = append(drifts, drift{ID: c.ID, Kind: "deleted remotely", Cached: c.AmountPaid})
			continue
		}
		if r.AmountPaid != c.AmountPaid {
			drifts = append(drifts, drift{ID: c.ID, Kind: "amount differs", Cached: c.AmountPaid, Remote: r.AmountPaid})
		}
	}
	for _, r := range remote {
		if _, ok := seen[r.ID]; !ok {
			drifts = append(drifts, drift{ID: r.ID, Kind: "missing from view", Remote: r.AmountPaid})
		}
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].ID < drifts[j].ID })
	return drifts
}

func printReport(viewID string, cached, remote int, cachedDur, remoteDur time.Duration, drifts []drift) {
	fmt.Println("Cache Drift Report")
	fmt.Println("==================")
	fmt.Printf("View: %s\n", viewID)
	fmt.Printf("  Cached records: %d (%s)\n", cached, cachedDur)
	fmt.Printf("  Remote records: %d (%s)\n", remote, remoteDur)
	for _, d := range drifts {
		fmt.Printf("[DRIFT] student %d: %s (cached %s, remote %s)\n", d.ID, d.Kind, d.Cached, d.Remote)
	}
	fmt.Printf("Drifted records: %d\n", len(drifts))
}
