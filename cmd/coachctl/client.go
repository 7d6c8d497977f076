package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

func newClient(apiURL string) *resty.Client {
	// LLM-backed endpoints can take a while.
	return resty.New().SetBaseURL(apiURL).SetTimeout(60 * time.Second)
}

// writeResponse pretty-prints a successful JSON body to out.
func writeResponse(resp *resty.Response, err error, out io.Writer) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), bytes.TrimSpace(resp.Body()))
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, resp.Body(), "", "  "); err != nil {
		_, err = out.Write(resp.Body())
		return err
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(out)
	return err
}

func runAdvice(c *resty.Client, customerID, kind string, out io.Writer) error {
	resp, err := c.R().Get(fmt.Sprintf("/api/customers/%s/advice/%s", url.PathEscape(customerID), kind))
	return writeResponse(resp, err, out)
}

func runChat(c *resty.Client, message string, out io.Writer) error {
	if message == "" {
		return fmt.Errorf("message cannot be empty")
	}
	resp, err := c.R().SetBody(map[string]interface{}{"message": message}).Post("/api/chat")
	return writeResponse(resp, err, out)
}

func runResearchLatest(c *resty.Client, out io.Writer) error {
	resp, err := c.R().Get("/api/research/latest")
	return writeResponse(resp, err, out)
}

func runResearchSearch(c *resty.Client, query string, offset int, out io.Writer) error {
	if query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	resp, err := c.R().
		SetBody(map[string]interface{}{"query": query, "offset": offset}).
		Post("/api/research/search")
	return writeResponse(resp, err, out)
}

func runResearchSummary(c *resty.Client, articleID string, out io.Writer) error {
	resp, err := c.R().Get(fmt.Sprintf("/api/research/%s/summary", url.PathEscape(articleID)))
	return writeResponse(resp, err, out)
}
