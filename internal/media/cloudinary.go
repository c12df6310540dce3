// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"aurelux/internal/models"
)

// DefaultCloudinaryAPIBase is the Cloudinary upload API origin.
const DefaultCloudinaryAPIBase = "https://api.cloudinary.com"

var cloudinaryVersionSegment = regexp.MustCompile(`^v\d+$`)

// CloudinaryConfig holds Cloudinary credentials.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	APIBase   string       // overridable for tests
	Client    *http.Client // defaults to a client with a 60s timeout
}

// CloudinaryDriver stores uploads on Cloudinary using signed requests.
type CloudinaryDriver struct {
	cfg    CloudinaryConfig
	client *http.Client
}

// NewCloudinaryDriver validates cfg and returns a driver.
func NewCloudinaryDriver(cfg CloudinaryConfig) (*CloudinaryDriver, error) {
	cfg.CloudName = strings.TrimSpace(cfg.CloudName)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.APISecret = strings.TrimSpace(cfg.APISecret)
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary: CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}
	cfg.Folder = strings.Trim(strings.TrimSpace(cfg.Folder), "/")
	if cfg.Folder == "" {
		cfg.Folder = "aurelux-beauty"
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultCloudinaryAPIBase
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &CloudinaryDriver{cfg: cfg, client: client}, nil
}

// Name implements Driver.
func (d *CloudinaryDriver) Name() string { return DriverCloudinary }

// IsManagedURL implements Driver. Only delivery URLs of the configured
// cloud match.
func (d *CloudinaryDriver) IsManagedURL(u string) bool {
	return strings.HasPrefix(u, "https://res.cloudinary.com/"+d.cfg.CloudName+"/")
}

type cloudinaryResponse struct {
	SecureURL    string `json:"secure_url"`
	ResourceType string `json:"resource_type"`
	Bytes        *int64 `json:"bytes"`
	Result       string `json:"result"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Save implements Driver.
func (d *CloudinaryDriver) Save(ctx context.Context, u Upload) (*Result, error) {
	p, err := prepareUpload(u)
	if err != nil {
		return nil, err
	}

	publicID := d.cfg.Folder + "/" + p.dir + "/" + p.stem()
	timestamp := strconv.FormatInt(nowFunc().Unix(), 10)
	signature := signCloudinary(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}, d.cfg.APISecret)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, field := range [][2]string{
		{"public_id", publicID},
		{"api_key", d.cfg.APIKey},
		{"timestamp", timestamp},
		{"signature", signature},
	} {
		if err := mw.WriteField(field[0], field[1]); err != nil {
			return nil, fmt.Errorf("cloudinary form: %w", err)
		}
	}
	fw, err := mw.CreateFormFile("file", p.name)
	if err != nil {
		return nil, fmt.Errorf("cloudinary form file: %w", err)
	}
	n, err := io.Copy(fw, io.LimitReader(u.Body, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("cloudinary read upload: %w", err)
	}
	if n > MaxUploadBytes {
		return nil, ErrPayloadTooLarge
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("cloudinary form close: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/%s/upload", d.cfg.APIBase, d.cfg.CloudName, resourceType(p.kind))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("cloudinary create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := d.do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.SecureURL == "" {
		return nil, fmt.Errorf("cloudinary upload: response has no secure_url")
	}

	kind := models.MediaImage
	if res.ResourceType == "video" {
		kind = models.MediaVideo
	}
	size := res.Bytes
	if size == nil {
		size = sizePtr(n)
	}

	return &Result{
		URL:          res.SecureURL,
		Type:         kind,
		OriginalName: u.Filename,
		MimeType:     u.ContentType,
		SizeBytes:    size,
	}, nil
}

// Delete implements Driver. "not found" from Cloudinary counts as deleted.
func (d *CloudinaryDriver) Delete(ctx context.Context, rawURL string) (bool, error) {
	if !d.IsManagedURL(rawURL) {
		return false, nil
	}
	publicID := extractCloudinaryPublicID(rawURL, d.cfg.CloudName)
	if publicID == "" {
		return false, nil
	}

	rt := "image"
	if strings.Contains(rawURL, "/video/upload/") {
		rt = "video"
	}
	timestamp := strconv.FormatInt(nowFunc().Unix(), 10)
	form := url.Values{
		"public_id":  {publicID},
		"api_key":    {d.cfg.APIKey},
		"timestamp":  {timestamp},
		"signature":  {signCloudinary(map[string]string{"public_id": publicID, "timestamp": timestamp}, d.cfg.APISecret)},
		"invalidate": {"true"},
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/%s/destroy", d.cfg.APIBase, d.cfg.CloudName, rt)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("cloudinary create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := d.do(req)
	if err != nil {
		return false, fmt.Errorf("cloudinary destroy: %w", err)
	}
	return res.Result == "ok" || res.Result == "not found", nil
}

// do sends req and decodes the JSON answer. Non-2xx statuses become
// errors carrying Cloudinary's message when present.
func (d *CloudinaryDriver) do(req *http.Request) (*cloudinaryResponse, error) {
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out cloudinaryResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode, out.Error.Message)
		}
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("parse response: %w", decodeErr)
	}
	return &out, nil
}

// signCloudinary computes sha1 over the "k=v" pairs sorted by key and
// joined with "&", followed by the API secret.
func signCloudinary(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// extractCloudinaryPublicID returns the public id embedded in a delivery
// URL: the path after "upload/", skipping transformation segments up to
// an optional "v<digits>" version, without the file extension.
func extractCloudinaryPublicID(rawURL, cloudName string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() != "res.cloudinary.com" {
		return ""
	}

	var segments []string
	for _, s := range strings.Split(parsed.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 || segments[0] != cloudName {
		return ""
	}

	uploadIdx := -1
	for i, s := range segments {
		if s == "upload" {
			uploadIdx = i
			break
		}
	}
	if uploadIdx < 0 || uploadIdx == len(segments)-1 {
		return ""
	}

	after := segments[uploadIdx+1:]
	for i, s := range after {
		if cloudinaryVersionSegment.MatchString(s) {
			after = after[i+1:]
			break
		}
	}
	if len(after) == 0 {
		return ""
	}

	ids := append([]string(nil), after...)
	last := ids[len(ids)-1]
	if dot := strings.LastIndexByte(last, '.'); dot > 0 {
		ids[len(ids)-1] = last[:dot]
	}
	return strings.Join(ids, "/")
}

func resourceType(kind models.MediaKind) string {
	if kind == models.MediaVideo {
		return "video"
	}
	return "image"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
