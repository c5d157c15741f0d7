package fetch

import (
	"bytes"
	"errors"
	"net/url"
	"strconv"

	"github.com/soypat/lneto/http/httpraw"
)

var (
	errMalformedResponse = errors.New("malformed http response")
	errUnsupportedScheme = errors.New("only http:// urls are supported")
)

const userAgent = "lcdfeed"

// target is the parts of a URL needed to issue a request.
type target struct {
	host       string // hostname or IP literal, no port
	port       uint16
	hostHeader string
	requestURI string
}

func parseTarget(rawURL string) (target, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return target{}, err
	}
	if u.Scheme != "http" {
		return target{}, errUnsupportedScheme
	}
	if u.Hostname() == "" {
		return target{}, errors.New("empty host in " + rawURL)
	}
	port := uint64(80)
	if p := u.Port(); p != "" {
		port, err = strconv.ParseUint(p, 10, 16)
		if err != nil || port == 0 {
			return target{}, errors.New("bad port in " + rawURL)
		}
	}
	return target{
		host:       u.Hostname(),
		port:       uint16(port),
		hostHeader: u.Host,
		requestURI: u.RequestURI(),
	}, nil
}

// appendRequest appends an HTTP/1.0 GET request for t to dst, using hdr as
// scratch space. HTTP/1.0 keeps the server from using chunked encoding and
// closes the connection after the body.
func appendRequest(dst []byte, hdr *httpraw.Header, t target) ([]byte, error) {
	hdr.Reset(nil)
	hdr.SetMethod("GET")
	hdr.SetRequestURI(t.requestURI)
	hdr.SetProtocol("HTTP/1.0")
	hdr.Set("Host", t.hostHeader)
	hdr.Set("User-Agent", userAgent)
	hdr.Set("Accept", "text/plain")
	hdr.Set("Connection", "close")
	dst, err := hdr.AppendRequest(dst)
	if err != nil {
		return dst, errors.New("build request:" + err.Error())
	}
	return dst, nil
}

// parseResponse splits a raw response into status code and body. The body
// aliases raw. Only the status line is read; headers are skipped.
func parseResponse(raw []byte) (status int, body []byte, err error) {
	eol := bytes.IndexByte(raw, '\n')
	if eol < 0 {
		return 0, nil, errMalformedResponse
	}
	statusLine := bytes.TrimRight(raw[:eol], "\r")
	if !bytes.HasPrefix(statusLine, []byte("HTTP/")) {
		return 0, nil, errMalformedResponse
	}
	sp := bytes.IndexByte(statusLine, ' ')
	if sp < 0 || len(statusLine) < sp+4 {
		return 0, nil, errMalformedResponse
	}
	status, err = strconv.Atoi(string(statusLine[sp+1 : sp+4]))
	if err != nil {
		return 0, nil, errMalformedResponse
	}

	if i := bytes.Index(raw, []byte("\r\n\r\n")); i >= 0 {
		return status, raw[i+4:], nil
	}
	if i := bytes.Index(raw, []byte("\n\n")); i >= 0 {
		return status, raw[i+2:], nil
	}
	return 0, nil, errMalformedResponse
}
