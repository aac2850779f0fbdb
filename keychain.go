package tasksolver

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// KeyChain maps service names ("openai", "anthropic", "gemini") to API keys.
type KeyChain struct {
	mu   sync.RWMutex
	keys map[string]string
}

// NewKeyChain creates an empty KeyChain.
func NewKeyChain() *KeyChain {
	return &KeyChain{keys: make(map[string]string)}
}

// Add registers key for service. If key names an existing file, the first line
// of that file is used as the key.
func (k *KeyChain) Add(service, key string) error {
	if info, err := os.Stat(key); err == nil && !info.IsDir() {
		secret, err := firstLine(key)
		if err != nil {
			return fmt.Errorf("read key file for %s: %w", service, err)
		}
		key = secret
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.keys == nil {
		k.keys = make(map[string]string)
	}
	k.keys[service] = key
	return nil
}

func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if sc.Scan() {
		return strings.TrimSpace(sc.Text()), nil
	}
	return "", sc.Err()
}

// Get returns the key registered for service.
func (k *KeyChain) Get(service string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	key, ok := k.keys[service]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingKey, service)
	}
	return key, nil
}

// Services returns the registered service names, sorted.
func (k *KeyChain) Services() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]string, 0, len(k.keys))
	for s := range k.keys {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Mask renders a secret for logs, keeping only its last four characters.
func Mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func (k *KeyChain) MarshalJSON() ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return json.Marshal(k.keys)
}

func (k *KeyChain) UnmarshalJSON(data []byte) error {
	keys := make(map[string]string)
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys = keys
	return nil
}
