package session

import (
	"context"
	"net"
	"time"

	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/graphite-mc/graphite/server/log"
)

// ServerConfig bounds the concierge/game-thread split (§5): concierge
// goroutines do all I/O from handshake through configuration, then hand a
// Connection that has reached Play to the single game thread over a
// bounded channel so the game tick loop never blocks on network reads
// itself.
type ServerConfig struct {
	MaxConcurrentLogins  int           // bounds in-flight pre-login sockets
	HandoffBacklog       int           // bounded handoff channel capacity
	TickPeriod           time.Duration // nominal game tick period
	CompressionThreshold int           // SetCompression threshold; <= 0 disables compression
}

func (cfg ServerConfig) withDefaults() ServerConfig {
	if cfg.MaxConcurrentLogins <= 0 {
		cfg.MaxConcurrentLogins = 256
	}
	if cfg.HandoffBacklog <= 0 {
		cfg.HandoffBacklog = 64
	}
	if cfg.TickPeriod <= 0 {
		cfg.TickPeriod = 50 * time.Millisecond
	}
	return cfg
}

// Server owns the listener, the concierge supervision group, and the
// single game thread that holds every post-handoff Connection.
type Server struct {
	cfg     ServerConfig
	log     log.Logger
	handler Handler

	handoff chan *Connection
	conns   []*playConn
}

// playConn pairs a handed-off Connection with the inbound byte channel its
// dedicated reader goroutine feeds. The reader goroutine is the only thing
// still doing blocking socket reads after handoff; the game thread itself
// only ever drains the channel non-blockingly, per §5's "no I/O that can
// block indefinitely" rule for the tick loop.
type playConn struct {
	c     *Connection
	inbox chan []byte
}

func startPlayConn(c *Connection) *playConn {
	pc := &playConn{c: c, inbox: make(chan []byte, 32)}
	go pc.read()
	return pc
}

func (pc *playConn) read() {
	buf := make([]byte, 4096)
	for {
		n, err := pc.c.conn.Read(buf)
		if n > 0 {
			cp := append([]byte(nil), buf[:n]...)
			select {
			case pc.inbox <- cp:
			default:
				// Inbox full: the game thread is falling behind. Drop the
				// connection rather than let a reader goroutine block
				// indefinitely trying to hand off bytes.
				pc.c.Close()
				return
			}
		}
		if err != nil {
			pc.c.Close()
			return
		}
	}
}

// NewServer wires a listener's accept loop to the concierge/game-thread
// split described above. handler is shared across every Connection; it is
// the caller's world/status/registry glue.
func NewServer(cfg ServerConfig, handler Handler, logger log.Logger) *Server {
	if logger == nil {
		logger = log.New()
	}
	cfg = cfg.withDefaults()
	return &Server{
		cfg:     cfg,
		log:     logger,
		handler: handler,
		handoff: make(chan *Connection, cfg.HandoffBacklog),
	}
}

// Serve accepts connections on ln until ctx is cancelled, running the
// concierge loop and the game tick loop concurrently. It returns once both
// have exited.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ln = netutil.LimitListener(ln, s.cfg.MaxConcurrentLogins)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.acceptLoop(ctx, ln) })
	g.Go(func() error { return s.tickLoop(ctx) })

	<-ctx.Done()
	_ = ln.Close()
	return g.Wait()
}

// acceptLoop is the concierge supervisor: each accepted socket gets its
// own goroutine that drives it through Handshake/Status/Login/Configuration,
// then either closes (Status branch) or posts the Connection to handoff once
// it reaches Play.
func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go s.conciergeSession(ctx, conn)
	}
}

func (s *Server) conciergeSession(ctx context.Context, conn net.Conn) {
	c := NewConnection(conn, s.handler, s.log)
	c.SetCompressionThreshold(s.cfg.CompressionThreshold)
	buf := make([]byte, 4096)
	for {
		if c.phase == PhasePlay {
			select {
			case s.handoff <- c:
			case <-ctx.Done():
				c.Close()
			}
			return
		}
		if c.Closed() {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		n, err := conn.Read(buf)
		if n > 0 {
			if err := c.Feed(buf[:n]); err != nil {
				s.log.Debugf("concierge session ended: %v", err)
				return
			}
			if ferr := c.Flush(); ferr != nil {
				return
			}
		}
		if err != nil {
			c.Close()
			return
		}
	}
}

// tickLoop is the single game thread: it drains newly handed-off
// connections, then once per tick period runs each live connection's
// Tick and flushes its outbound buffer. No step in this loop performs a
// blocking network read. Writes are not non-blocking: each Flush is a plain
// conn.Write with no deadline, so a slow client stalls the loop until its
// socket accepts the bytes.
func (s *Server) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.TickPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-s.handoff:
			s.conns = append(s.conns, startPlayConn(c))
		case now := <-ticker.C:
			s.tick(now)
		}
	}
}

func (s *Server) tick(now time.Time) {
	live := s.conns[:0]
	for _, pc := range s.conns {
		if pc.c.Closed() {
			continue
		}
		if err := s.drainInbox(pc); err != nil {
			s.log.Debugf("connection closed: %v", err)
			continue
		}
		if pc.c.Closed() {
			continue
		}
		if err := pc.c.Tick(now); err != nil {
			s.log.Debugf("connection closed by tick: %v", err)
			continue
		}
		if err := pc.c.Flush(); err != nil {
			pc.c.Close()
			continue
		}
		live = append(live, pc)
	}
	s.conns = live
}

// drainInbox processes whatever the reader goroutine has queued so far
// without blocking. Anything not yet delivered waits for the next tick.
func (s *Server) drainInbox(pc *playConn) error {
	for {
		select {
		case data := <-pc.inbox:
			if err := pc.c.Feed(data); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}
