package thirteenf

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// This file contains functions to access 13f.info, the public index of SEC
// 13F filings. Manager and filing indexes are served as HTML pages; holdings
// tables are served as JSON.

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// get from disk
	// diskcache implements a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", time.Now().Format("2006-01-02"), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// daily returns a client with a cache all with daily expire. Filing indexes
// change at most once per quarter, so a one-day cache is already generous.
func daily() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// wget performs an HTTP GET request and returns the raw body.
func wget(client *http.Client, addr string) ([]byte, error) {
	resp, err := client.Get(addr)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	body, err := wget(client, addr)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}

// Manager is one investment manager listed on 13f.info.
type Manager struct {
	Slug string // e.g. "0001697868-valley-forge-capital-management-lp"
	Name string
}

// FilingRef is one entry of a manager's filing index.
type FilingRef struct {
	ID      string // 13f.info filing identifier
	Quarter string // e.g. "Q1 2024"
}

// manager index pages list one <a href="/manager/slug">Name</a> per row.
var managerLinkRE = regexp.MustCompile(`<a href="/manager/([0-9a-z-]+)">([^<]+)</a>`)

// manager pages list one <a href="/13f/id-slug">Q1 2024</a> per filing.
var filingLinkRE = regexp.MustCompile(`<a href="/13f/([0-9a-zA-Z-]+?)(?:-[0-9a-z-]+)?">(Q[1-4] \d{4})</a>`)

// thirteenfManagers returns the managers whose names start with the given
// letter ('a'..'z', or '0' for the rest).
func thirteenfManagers(letter string) ([]Manager, error) {
	body, err := wget(daily(), "https://13f.info/managers/"+letter)
	if err != nil {
		return nil, err
	}
	return parseManagerIndex(body), nil
}

func parseManagerIndex(body []byte) []Manager {
	var managers []Manager
	for _, m := range managerLinkRE.FindAllSubmatch(body, -1) {
		managers = append(managers, Manager{
			Slug: string(m[1]),
			Name: html.UnescapeString(string(m[2])),
		})
	}
	return managers
}

// thirteenfFilings returns a manager's filing index, one entry per reported
// quarter, in page order (most recent first).
func thirteenfFilings(slug string) ([]FilingRef, error) {
	body, err := wget(daily(), "https://13f.info/manager/"+slug)
	if err != nil {
		return nil, err
	}
	refs := parseFilingIndex(body)
	if len(refs) == 0 {
		return nil, fmt.Errorf("no filings found for manager %q", slug)
	}
	return refs, nil
}

func parseFilingIndex(body []byte) []FilingRef {
	var refs []FilingRef
	for _, m := range filingLinkRE.FindAllSubmatch(body, -1) {
		refs = append(refs, FilingRef{ID: string(m[1]), Quarter: string(m[2])})
	}
	return refs
}

// thirteenfFiling fetches one filing's holdings table and converts it into a
// RawFiling for the given fund and quarter.
func thirteenfFiling(fund string, ref FilingRef) (RawFiling, error) {
	// https://13f.info/data/13f/{id}
	// {
	//   "data": [
	//     ["AAPL", "APPLE INC", "COM", "037833100", 16000, 3.2, 100, "SH", null],
	//     ...
	//   ]
	// }
	// Columns: symbol, issuer name, class, cusip, value in $000, percentage,
	// shares, principal type, option type.
	body, err := wget(daily(), "https://13f.info/data/13f/"+ref.ID)
	if err != nil {
		return RawFiling{}, err
	}
	rows, err := parseFilingPayload(body)
	if err != nil {
		return RawFiling{}, fmt.Errorf("filing %s of %s: %w", ref.ID, fund, err)
	}
	return RawFiling{Fund: fund, Quarter: ref.Quarter, Rows: rows}, nil
}

// parseFilingPayload extracts holdings rows from a 13f.info data payload.
// Values are reported in thousands of dollars and scaled to dollars here, at
// the acquisition boundary, so the rest of the system never sees $000 units.
func parseFilingPayload(body []byte) ([]RawRow, error) {
	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid holdings payload: %w", err)
	}
	data, err := jsonpath.Get("$.data", payload)
	if err != nil {
		return nil, fmt.Errorf("holdings payload has no data table: %w", err)
	}
	table, ok := data.([]interface{})
	if !ok {
		return nil, fmt.Errorf("holdings data is not a table")
	}

	rows := make([]RawRow, 0, len(table))
	for _, entry := range table {
		cells, ok := entry.([]interface{})
		if !ok || len(cells) < 9 {
			continue // the parser will never see the row; nothing to warn on
		}
		rows = append(rows, RawRow{
			Ticker:     asString(cells[0]),
			Name:       asString(cells[1]),
			Class:      asString(cells[2]),
			Cusip:      asString(cells[3]),
			Value:      asFloat(cells[4]) * 1000,
			Shares:     asFloat(cells[6]),
			OptionType: asString(cells[8]),
		})
	}
	return rows, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asFloat(v interface{}) float64 {
	f, _ := v.(float64)
	return f
}

// FetchFund downloads a manager's complete filing history and returns it as
// raw filings ready for ingestion, oldest first.
func FetchFund(slug string) ([]RawFiling, error) {
	refs, err := thirteenfFilings(slug)
	if err != nil {
		return nil, err
	}
	raws := make([]RawFiling, 0, len(refs))
	for i := len(refs) - 1; i >= 0; i-- {
		raw, err := thirteenfFiling(slug, refs[i])
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// SearchManagers returns the managers whose name contains the query,
// scanning the alphabetical index pages.
func SearchManagers(query string) ([]Manager, error) {
	letters := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
		"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z", "0"}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return nil, err
	}
	var out []Manager
	for _, letter := range letters {
		managers, err := thirteenfManagers(letter)
		if err != nil {
			return nil, err
		}
		for _, m := range managers {
			if re.MatchString(m.Name) {
				out = append(out, m)
			}
		}
	}
	return out, nil
}
