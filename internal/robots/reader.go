package robots

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/temoto/robotstxt"
)

const (
	// DefaultMaxDisallows caps the disallow list of a single site.
	DefaultMaxDisallows = 250

	// DefaultTimeout bounds the robots.txt fetch.
	DefaultTimeout = 5 * time.Second

	// maxRobotsSize bounds the robots.txt body that is read.
	maxRobotsSize = 512 * 1024
)

// Reader fetches and parses robots.txt files.
type Reader struct {
	client       *http.Client
	agentName    string
	userAgent    string
	maxDisallows int
	timeout      time.Duration
	mode         MatchMode
	logger       *slog.Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithHTTPClient sets the HTTP client used for robots.txt requests.
func WithHTTPClient(client *http.Client) ReaderOption {
	return func(r *Reader) {
		r.client = client
	}
}

// WithUserAgent sets the User-Agent header sent with robots.txt requests.
func WithUserAgent(ua string) ReaderOption {
	return func(r *Reader) {
		r.userAgent = ua
	}
}

// WithMaxDisallows sets the disallow list cap. Non-positive values are ignored.
func WithMaxDisallows(n int) ReaderOption {
	return func(r *Reader) {
		if n > 0 {
			r.maxDisallows = n
		}
	}
}

// WithTimeout sets the robots.txt fetch timeout.
func WithTimeout(d time.Duration) ReaderOption {
	return func(r *Reader) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithMatchMode sets how policies compare URLs to disallowed entries.
func WithMatchMode(mode MatchMode) ReaderOption {
	return func(r *Reader) {
		r.mode = mode
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) {
		r.logger = logger
	}
}

// NewReader creates a Reader for the given agent name. Disallow rules apply
// when their User-agent is "*" or exactly agentName.
func NewReader(agentName string, opts ...ReaderOption) *Reader {
	r := &Reader{
		client:       http.DefaultClient,
		agentName:    agentName,
		maxDisallows: DefaultMaxDisallows,
		timeout:      DefaultTimeout,
		mode:         MatchExact,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read fetches <rootURL>/robots.txt and returns the site's policy.
// A missing, unreachable or non-2xx robots.txt yields an empty policy.
func (r *Reader) Read(ctx context.Context, rootURL string) *Policy {
	policy := &Policy{root: rootURL, mode: r.mode}

	body, status, err := r.fetch(ctx, rootURL+"/robots.txt")
	if err != nil {
		r.logger.Debug("robots.txt unavailable, treating site as allowed",
			"root", rootURL,
			"error", err,
		)
		return policy
	}
	if status < 200 || status > 299 {
		r.logger.Debug("robots.txt not found", "root", rootURL, "status", status)
		return policy
	}

	policy.disallows = r.parse(rootURL, body)

	if r.mode == MatchPrefix {
		data, err := robotstxt.FromStatusAndBytes(status, body)
		if err != nil {
			r.logger.Debug("robots.txt not understood by prefix matcher, using exact entries",
				"root", rootURL,
				"error", err,
			)
		} else {
			policy.group = data.FindGroup(r.agentName)
		}
	}
	return policy
}

func (r *Reader) fetch(ctx context.Context, robotsURL string) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, 0, err
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// parse extracts the disallowed entries that apply to the reader's agent.
// Lines it does not understand are skipped.
func (r *Reader) parse(rootURL string, body []byte) []string {
	var (
		disallows []string
		agents    []string
		inRules   bool
	)

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 4096), maxRobotsSize)
	for scanner.Scan() {
		key, value, ok := splitLine(scanner.Text())
		if !ok {
			continue
		}

		switch key {
		case "user-agent":
			// Consecutive User-agent lines form one group.
			if inRules {
				agents = agents[:0]
				inRules = false
			}
			agents = append(agents, value)
		case "disallow":
			inRules = true
			if value == "" || !r.applies(agents) {
				continue
			}
			if len(disallows) >= r.maxDisallows {
				r.logger.Warn("maximum disallow count reached, robots.txt read halted",
					"root", rootURL,
					"limit", r.maxDisallows,
				)
				return disallows
			}
			disallows = append(disallows, rootURL+value)
		default:
			inRules = true
		}
	}
	return disallows
}

func (r *Reader) applies(agents []string) bool {
	for _, agent := range agents {
		if agent == "*" || agent == r.agentName {
			return true
		}
	}
	return false
}

// splitLine splits "Key: value # comment" into a lower-case key and a
// trimmed value.
func splitLine(line string) (string, string, bool) {
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}
