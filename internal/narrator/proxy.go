package narrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/lifemap/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ProcessRequest is the body posted to the proxy.
type ProcessRequest struct {
	Input   string `json:"input"`
	Message string `json:"message,omitempty"`
	UserID  string `json:"userId,omitempty"`
}

// ProcessResponse is the proxy's envelope.
type ProcessResponse struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ProxyClient posts prompts to a narrator proxy. With no URL it finds a
// local proxy through its lockfile on every call.
type ProxyClient struct {
	URL        string
	Secret     string
	httpClient *http.Client
}

func NewProxyClient(url, secret string) *ProxyClient {
	return &ProxyClient{
		URL:        strings.TrimSuffix(url, "/"),
		Secret:     secret,
		httpClient: &http.Client{},
	}
}

func (c *ProxyClient) Process(ctx context.Context, input, userID string) (Result, error) {
	endpoint, secret := c.URL, c.Secret
	if endpoint == "" {
		lockfile, err := LockfilePath()
		if err != nil {
			return Result{}, err
		}
		port, lockSecret, err := findAndValidateProxyProcess(lockfile)
		if err != nil {
			return Result{}, err
		}
		endpoint, secret = "http://127.0.0.1:"+port, lockSecret
	}

	body, err := json.Marshal(ProcessRequest{Input: input, UserID: userID})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+constants.ProxyProcessPath, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if secret != "" {
		req.Header.Set(constants.ProxySecretHeader, secret)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("narrator request failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read narrator response: %w", err)
	}

	var envelope ProcessResponse
	decodeErr := json.Unmarshal(data, &envelope)

	if res.StatusCode != http.StatusOK {
		if decodeErr == nil && envelope.Error != "" {
			return Result{}, fmt.Errorf("narrator returned status %d: %s", res.StatusCode, envelope.Error)
		}
		return Result{}, fmt.Errorf("narrator returned status %d: %s", res.StatusCode, strings.TrimSpace(string(data)))
	}
	if decodeErr != nil {
		return Result{}, fmt.Errorf("invalid narrator response: %w", decodeErr)
	}
	if !envelope.Success {
		if envelope.Error != "" {
			return Result{}, errors.New(envelope.Error)
		}
		return Result{}, errors.New("failed to process input")
	}
	return ParseResult(envelope.Result), nil
}

// LockfilePath returns where a running proxy advertises itself.
func LockfilePath() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(configDir, constants.AppName, constants.ProxyLockfileName), nil
}

// WriteLockfile records port, pid and secret as "port|pid|secret".
func WriteLockfile(path string, port, pid int, secret string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	content := fmt.Sprintf("%d|%d|%s", port, pid, secret)
	return os.WriteFile(path, []byte(content), 0o600)
}

func findAndValidateProxyProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errors.New("narrator proxy is not running (start it with 'lifemap serve')")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := parts[0]
	if strings.TrimSpace(port) == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New("narrator proxy process not running")
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.AppName, process.Executable())
	}

	return port, secret, nil
}
