package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/arbor-ui/arbor/pkg/component"
	"github.com/arbor-ui/arbor/pkg/metrics"
	"github.com/arbor-ui/arbor/pkg/vdom"
)

// Session owns one WebSocket connection and the reactive tree behind it.
// All rendering and event dispatch happens on the session's event loop
// goroutine; the reactive graph never leaves it.
type Session struct {
	ID string

	conn     *websocket.Conn
	config   Config
	logger   *slog.Logger
	tracer   trace.Tracer
	registry *component.Registry
	rootName string

	// mu guards connection writes.
	mu      sync.Mutex
	closed  atomic.Bool
	done    chan struct{}
	events  chan EventFrame
	render  chan struct{}
	sendSeq atomic.Uint64

	// tree is the current expanded tree, component references resolved.
	tree *vdom.VNode

	// instances maps expansion paths to mounted component instances so
	// state survives re-renders.
	instances map[string]*component.Instance
	seen      map[string]bool
}

func newSession(id string, conn *websocket.Conn, config Config, registry *component.Registry, rootName string, tracer trace.Tracer) *Session {
	return &Session{
		ID:        id,
		conn:      conn,
		config:    config,
		logger:    config.Logger.With("session", id),
		tracer:    tracer,
		registry:  registry,
		rootName:  rootName,
		done:      make(chan struct{}),
		events:    make(chan EventFrame, config.MaxEventQueue),
		render:    make(chan struct{}, 1),
		instances: make(map[string]*component.Instance),
	}
}

// Start launches the session loops. The initial render runs on the event
// loop, so the first patches frame is a full tree create.
func (s *Session) Start() {
	metrics.SessionStarted()
	go s.readLoop()
	go s.writeLoop()
	go s.eventLoop()
}

// Close tears the session down. Idempotent.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	close(s.done)
	if s.conn != nil {
		s.conn.Close()
	}
	metrics.SessionEnded()
}

// readLoop reads frames until the connection drops.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		frameType, data, err := decodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", err)
			continue
		}

		switch frameType {
		case frameEvent:
			var ev EventFrame
			if err := json.Unmarshal(data, &ev); err != nil {
				s.logger.Error("event decode error", "error", err)
				s.sendError("invalid_event", "malformed event frame")
				continue
			}
			select {
			case s.events <- ev:
			default:
				s.sendError("queue_full", "event queue full")
			}

		case framePing:
			s.sendControl(framePong)

		case framePong:
			// heartbeat answered

		default:
			s.logger.Warn("unknown frame type", "type", frameType)
		}
	}
}

// writeLoop sends heartbeats until the session closes.
func (s *Session) writeLoop() {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.sendControl(framePing); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// eventLoop is the session's single-threaded heart: initial render, event
// dispatch, and re-renders all run here.
func (s *Session) eventLoop() {
	defer s.unmountAll()

	s.renderPass()

	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)
		case <-s.render:
			s.renderPass()
		case <-s.done:
			return
		}
	}
}

// scheduleRender marks the tree dirty. Coalesces: one pending render at a
// time.
func (s *Session) scheduleRender() {
	select {
	case s.render <- struct{}{}:
	default:
	}
}

// handleEvent dispatches one client event under a span, then re-renders.
func (s *Session) handleEvent(ev EventFrame) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event panic", "panic", r, "stack", string(debug.Stack()))
			s.sendError("internal", fmt.Sprint(r))
		}
	}()

	ctx, span := s.tracer.Start(context.Background(),
		"arbor.event."+ev.Event,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("arbor.session_id", s.ID),
			attribute.String("arbor.event_type", ev.Event),
			attribute.String("arbor.event_path", pathString(ev.Path)),
		),
	)
	defer span.End()
	_ = ctx

	err := s.dispatch(ev)
	metrics.RecordEvent(ev.Event, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("event dispatch failed", "event", ev.Event, "error", err)
		s.sendError("dispatch", err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	s.renderPass()
}

// dispatch locates the event target in the current tree and invokes its
// handler.
func (s *Session) dispatch(ev EventFrame) error {
	node := nodeAtPath(s.tree, ev.Path)
	if node == nil {
		return fmt.Errorf("no node at path %s", pathString(ev.Path))
	}

	for key, val := range node.Props {
		if !vdom.IsEventHandler(key) || vdom.EventName(key) != ev.Event {
			continue
		}
		switch fn := val.(type) {
		case func():
			fn()
			return nil
		case func(map[string]any):
			fn(ev.Payload)
			return nil
		default:
			return fmt.Errorf("handler for %q has unsupported type %T", ev.Event, val)
		}
	}
	return fmt.Errorf("no %q handler at path %s", ev.Event, pathString(ev.Path))
}

// renderPass expands the root, diffs against the current tree, and ships
// the patches.
func (s *Session) renderPass() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("render panic", "panic", r, "stack", string(debug.Stack()))
			s.sendError("render", fmt.Sprint(r))
			s.Close()
		}
	}()

	start := time.Now()

	s.seen = make(map[string]bool)
	next := s.expand(vdom.Component(s.rootName, nil), "")
	s.sweepInstances()

	patches := vdom.Diff(s.tree, next)
	s.tree = next
	metrics.RecordRender(time.Since(start))

	if len(patches) > 0 {
		s.sendPatches(patches)
	}
}

// expand resolves component references into their rendered trees. Instances
// are cached by expansion path so their state persists across renders; a
// reference whose props changed updates the cached instance in place.
func (s *Session) expand(v *vdom.VNode, path string) *vdom.VNode {
	if v == nil {
		return nil
	}

	switch v.Kind {
	case vdom.KindComponent:
		key := path + "#" + v.Name

		inst := s.instances[key]
		if inst != nil && !vdom.PropsEqual(inst.Props(), v.Props) {
			// Same occurrence, new props: update in place, keep state slots.
			inst.SetProps(v.Props)
		}
		if inst == nil {
			mounted, err := s.registry.MountComponent(v.Name, v.Props)
			if err != nil {
				panic(fmt.Sprintf("[ARBOR E001] %v", err))
			}
			inst = mounted.(*component.Instance)
			inst.SetUpdateHandler(func(*vdom.VNode) { s.scheduleRender() })
			s.instances[key] = inst
		}
		s.seen[key] = true

		return s.expand(inst.Render(), key)

	case vdom.KindElement, vdom.KindFragment:
		out := &vdom.VNode{
			Kind:  v.Kind,
			Tag:   v.Tag,
			Props: v.Props,
		}
		for i, c := range v.Children {
			out.Children = append(out.Children, s.expand(c, path+"/"+strconv.Itoa(i)))
		}
		return out

	default:
		return v
	}
}

// sweepInstances unmounts instances whose reference left the tree.
func (s *Session) sweepInstances() {
	for key, inst := range s.instances {
		if !s.seen[key] {
			inst.Unmount()
			delete(s.instances, key)
		}
	}
}

func (s *Session) unmountAll() {
	for key, inst := range s.instances {
		inst.Unmount()
		delete(s.instances, key)
	}
}

// sendPatches writes one patches frame.
func (s *Session) sendPatches(patches []vdom.Patch) {
	frame := PatchesFrame{
		Type:    framePatches,
		Seq:     s.sendSeq.Add(1),
		Patches: toWirePatches(patches),
	}
	if err := s.writeJSON(frame); err != nil {
		s.logger.Error("write error", "error", err)
		s.Close()
		return
	}
	metrics.RecordPatches(len(patches))
}

func (s *Session) sendError(code, message string) {
	s.writeJSON(ErrorFrame{Type: frameError, Code: code, Message: message})
}

func (s *Session) sendControl(frameType string) error {
	return s.writeJSON(controlFrame{Type: frameType})
}

func (s *Session) writeJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || s.closed.Load() {
		return fmt.Errorf("session closed")
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// nodeAtPath walks child indices from root.
func nodeAtPath(root *vdom.VNode, path []int) *vdom.VNode {
	node := root
	for _, idx := range path {
		if node == nil || idx < 0 || idx >= len(node.Children) {
			return nil
		}
		node = node.Children[idx]
	}
	return node
}

func pathString(path []int) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += strconv.Itoa(p)
	}
	return out
}
