package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	activateMessage = "activate\n"
	activateTimeout = time.Second
)

// InstanceGuard holds the single-instance lock. While held it answers
// activation requests from later launches.
type InstanceGuard struct {
	mu         sync.Mutex
	listener   net.Listener
	address    string
	onActivate func()
	done       chan struct{}
}

// AcquireSingleInstance binds a localhost port derived from appName.
// The tray app holds it for its lifetime; headless runs skip it.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := InstanceAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w at %s", ErrAlreadyRunning, address)
	}
	guard := &InstanceGuard{listener: listener, address: address, done: make(chan struct{})}
	go guard.serve(listener)
	return guard, nil
}

// OnActivate sets the callback run when another launch asks this one to come forward.
// It runs on the guard's goroutine.
func (guard *InstanceGuard) OnActivate(callback func()) {
	guard.mu.Lock()
	guard.onActivate = callback
	guard.mu.Unlock()
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil {
		return nil
	}
	guard.mu.Lock()
	listener := guard.listener
	guard.listener = nil
	guard.mu.Unlock()
	if listener == nil {
		return nil
	}
	if err := listener.Close(); err != nil {
		return fmt.Errorf("release instance lock: %w", err)
	}
	<-guard.done
	return nil
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func (guard *InstanceGuard) serve(listener net.Listener) {
	defer close(guard.done)
	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		guard.answer(conn)
	}
}

func (guard *InstanceGuard) answer(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(activateTimeout))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil || line != activateMessage {
		return
	}
	guard.mu.Lock()
	callback := guard.onActivate
	guard.mu.Unlock()
	if callback != nil {
		callback()
	}
}

// ActivateRunningInstance asks the instance holding appName's lock to show itself.
func ActivateRunningInstance(appName string) error {
	conn, err := net.DialTimeout("tcp", InstanceAddress(appName), activateTimeout)
	if err != nil {
		return fmt.Errorf("activate running instance: %w", err)
	}
	defer conn.Close()
	_ = conn.SetWriteDeadline(time.Now().Add(activateTimeout))
	if _, err := io.WriteString(conn, activateMessage); err != nil {
		return fmt.Errorf("activate running instance: %w", err)
	}
	return nil
}

// InstanceAddress returns the loopback address used as the lock for appName.
func InstanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	return minPort + int(hash.Sum32()%uint32(maxPort-minPort+1))
}
