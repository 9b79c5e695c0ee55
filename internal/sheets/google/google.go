package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"budgetsheet/internal/catalog"
	ports "budgetsheet/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const defaultTitleTTL = 10 * time.Minute

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string

	// Tab titles by spreadsheet id, in workbook order.
	mu            sync.Mutex
	titles        map[string][]string
	titlesExpire  map[string]time.Time
	titleValidFor time.Duration
}

// Ensure interface conformance
var _ ports.ValueSource = (*Client)(nil)

// Options configure a Sheets client. SpreadsheetID is the default workbook
// used when a request carries no Ref.
type Options struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
}

// New creates a Sheets client using Service Account credentials.
func New(ctx context.Context, opts Options) (*Client, error) {
	svc, err := newSheetsService(ctx, opts.CredentialsJSON, opts.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(svc, opts.SpreadsheetID), nil
}

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	return New(ctx, Options{
		SpreadsheetID:   spreadsheetID,
		CredentialsJSON: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")),
		CredentialsFile: strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")),
	})
}

func newClient(svc *gsheet.Service, spreadsheetID string) *Client {
	return &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(spreadsheetID),
		titles:        make(map[string][]string),
		titlesExpire:  make(map[string]time.Time),
		titleValidFor: defaultTitleTTL,
	}
}

// newSheetsService initializes a read-only Sheets service. Inline JSON wins
// over a file; GOOGLE_APPLICATION_CREDENTIALS is the last fallback.
func newSheetsService(ctx context.Context, credentialsJSON, credentialsFile string) (*gsheet.Service, error) {
	if credentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var creds []byte
	switch {
	case credentialsJSON != "":
		creds = []byte(credentialsJSON)
	case credentialsFile != "":
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		creds = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.DebugContext(ctx, "Creating Google Sheets service", "credentials_size", len(creds))
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// ReadLeafValues reads the tab at req.SheetIndex and returns the layout
// cells that hold a value.
func (c *Client) ReadLeafValues(ctx context.Context, req ports.SheetRequest, layout catalog.Layout) (map[string]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	id := strings.TrimSpace(req.Ref)
	if id == "" {
		id = c.spreadsheetID
	}
	if id == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	title, err := c.sheetTitle(ctx, id, req.SheetIndex)
	if err != nil {
		return nil, err
	}
	rows, cols := ports.Bounds(layout)
	if rows == 0 || cols == 0 {
		return map[string]string{}, nil
	}
	rng := a1Range(title, rows, cols)
	resp, err := c.svc.Spreadsheets.Values.Get(id, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		grid[i] = toStrings(row)
	}
	values := ports.ExtractLeafValues(grid, layout)
	slog.DebugContext(ctx, "Read sheet values", "spreadsheet", id, "sheet", title, "range", rng, "values", len(values))
	return values, nil
}

func (c *Client) sheetTitle(ctx context.Context, id string, index int) (string, error) {
	titles, err := c.sheetTitles(ctx, id)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(titles) {
		return "", fmt.Errorf("%w: index %d of %d in %s", ports.ErrSheetNotFound, index, len(titles), id)
	}
	return titles[index], nil
}

func (c *Client) sheetTitles(ctx context.Context, id string) ([]string, error) {
	c.mu.Lock()
	if titles, ok := c.titles[id]; ok && time.Now().Before(c.titlesExpire[id]) {
		c.mu.Unlock()
		return titles, nil
	}
	c.mu.Unlock()

	ss, err := c.svc.Spreadsheets.Get(id).Fields("sheets.properties(index,title)").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet %s: %w", id, err)
	}
	props := make([]*gsheet.SheetProperties, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh != nil && sh.Properties != nil {
			props = append(props, sh.Properties)
		}
	}
	titles := orderedTitles(props)

	c.mu.Lock()
	c.titles[id] = titles
	c.titlesExpire[id] = time.Now().Add(c.titleValidFor)
	c.mu.Unlock()
	return titles, nil
}

// orderedTitles places each title at its sheet index. Gaps stay empty.
func orderedTitles(props []*gsheet.SheetProperties) []string {
	n := len(props)
	for _, p := range props {
		if int(p.Index)+1 > n {
			n = int(p.Index) + 1
		}
	}
	out := make([]string, n)
	for _, p := range props {
		if p.Index >= 0 {
			out[p.Index] = p.Title
		}
	}
	return out
}

// a1Range builds "'Title'!A1:<col><rows>".
func a1Range(title string, rows, cols int) string {
	return fmt.Sprintf("%s!A1:%s%d", quoteTitle(title), columnName(cols), rows)
}

func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// columnName converts a 1-based column number to letters: 1→A, 27→AA.
func columnName(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = cellString(v)
	}
	return out
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
