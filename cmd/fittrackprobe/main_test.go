package main

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/iafilius/FitTrack/src/apiclient"
	"github.com/iafilius/FitTrack/src/apitest"
)

func TestProbe(t *testing.T) {
	srv := apitest.New()
	defer srv.Close()
	srv.AddUser("alice", "secret1")

	cases := []struct {
		name     string
		args     []string
		fail     string
		wantCode int
		wantOut  string
	}{
		{"health only", []string{"-server", srv.URL}, "", 0, "health: ok"},
		{"session", []string{"-server", srv.URL, "-user", "alice", "-password", "secret1"}, "", 0, "session: ok"},
		{"bad password", []string{"-server", srv.URL, "-user", "alice", "-password", "wrong12"}, "", 1, "login: FAIL (Invalid credentials)"},
		{"health down", []string{"-server", srv.URL}, apiclient.EndpointHealth, 1, "health: FAIL"},
		{"bad flag", []string{"-nope"}, "", 2, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv.Clear()
			if c.fail != "" {
				srv.Fail(c.fail, http.StatusInternalServerError, `{"error":"down"}`)
			}
			var out, errOut bytes.Buffer
			if code := run(c.args, &out, &errOut); code != c.wantCode {
				t.Fatalf("expected exit %d, got %d (out=%q err=%q)", c.wantCode, code, out.String(), errOut.String())
			}
			if !strings.Contains(out.String(), c.wantOut) {
				t.Fatalf("expected %q in %q", c.wantOut, out.String())
			}
		})
	}
}
