package tlsroots

import (
	"crypto/tls"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/webfront/internal/telemetry/logger"
)

// DefaultDebounce coalesces the burst of events a certificate rotation
// produces; cert and key are usually rewritten one after the other.
const DefaultDebounce = 500 * time.Millisecond

// KeyPair serves a certificate and key from disk and reloads them when
// either file changes. A failed reload keeps the previous certificate.
type KeyPair struct {
	certFile string
	keyFile  string
	cert     atomic.Pointer[tls.Certificate]
	debounce time.Duration
	log      logger.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	done     chan struct{}
	stopOnce sync.Once
}

// KeyPairOption configures a KeyPair.
type KeyPairOption func(*KeyPair)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) KeyPairOption {
	return func(k *KeyPair) {
		k.log = l
	}
}

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) KeyPairOption {
	return func(k *KeyPair) {
		k.debounce = d
	}
}

// NewKeyPair loads certFile and keyFile. Nothing is watched until Start.
func NewKeyPair(certFile, keyFile string, opts ...KeyPairOption) (*KeyPair, error) {
	k := &KeyPair{
		certFile: certFile,
		keyFile:  keyFile,
		debounce: DefaultDebounce,
		log:      logger.Default(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(k)
	}
	k.log = k.log.With("component", "tls")

	if err := k.Reload(); err != nil {
		return nil, fmt.Errorf("tlsroots: initial load: %w", err)
	}
	return k, nil
}

// Reload reads the key pair from disk and swaps it in.
func (k *KeyPair) Reload() error {
	cert, err := tls.LoadX509KeyPair(k.certFile, k.keyFile)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}
	k.cert.Store(&cert)
	k.log.Info("certificate loaded", "cert_file", k.certFile)
	return nil
}

// Start watches the directories of both files and returns. Directories are
// watched rather than files so rename-based rotation is seen.
func (k *KeyPair) Start() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tlsroots: create watcher: %w", err)
	}

	dirs := map[string]bool{
		filepath.Dir(k.certFile): true,
		filepath.Dir(k.keyFile):  true,
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return fmt.Errorf("tlsroots: watch %s: %w", dir, err)
		}
	}

	k.mu.Lock()
	k.watcher = w
	k.mu.Unlock()

	go k.loop(w)
	return nil
}

func (k *KeyPair) loop(w *fsnotify.Watcher) {
	certFile := filepath.Clean(k.certFile)
	keyFile := filepath.Clean(k.keyFile)

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			name := filepath.Clean(event.Name)
			if name != certFile && name != keyFile {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			k.log.Debug("certificate file changed", "file", name, "op", event.Op.String())
			k.schedule()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			k.log.Error("certificate watcher error", "error", err)
		case <-k.done:
			return
		}
	}
}

func (k *KeyPair) schedule() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.timer != nil {
		k.timer.Stop()
	}
	k.timer = time.AfterFunc(k.debounce, func() {
		select {
		case <-k.done:
			return
		default:
		}
		if err := k.Reload(); err != nil {
			k.log.Error("certificate reload failed, keeping previous certificate",
				"cert_file", k.certFile, "error", err)
		}
	})
}

// Stop stops watching. It is safe to call more than once.
func (k *KeyPair) Stop() error {
	var err error
	k.stopOnce.Do(func() {
		close(k.done)

		k.mu.Lock()
		defer k.mu.Unlock()
		if k.timer != nil {
			k.timer.Stop()
		}
		if k.watcher != nil {
			err = k.watcher.Close()
		}
	})
	return err
}

// GetCertificate returns the current certificate. It implements
// tls.Config.GetCertificate.
func (k *KeyPair) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return k.cert.Load(), nil
}

// ServerConfig returns a server TLS config that always presents the
// current certificate.
func (k *KeyPair) ServerConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: k.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}
