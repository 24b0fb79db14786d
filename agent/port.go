package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/davidbalbert/lldpd/config"
	"github.com/davidbalbert/lldpd/net/netmon"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// A port announces the local system on one interface and records the
// neighbors heard there.
type port struct {
	iface     netmon.Interface
	conf      config.LLDPInterfaceConfig
	dst       net.HardwareAddr
	interval  time.Duration
	system    *localSystem
	conn      net.PacketConn
	neighbors *NeighborTable
	logger    *zap.Logger
}

func (p *port) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	r := make(chan *Frame)

	g.Go(func() error {
		<-ctx.Done()
		p.conn.Close()
		return nil
	})

	if p.conf.Mode.Receives() {
		g.Go(func() error {
			return p.receive(ctx, r)
		})
	}

	g.Go(func() error {
		var announceTick <-chan time.Time
		if p.conf.Mode.Transmits() {
			announceTick = tickImmediately(ctx, p.interval)
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case f := <-r:
				p.handleFrame(f)
			case <-announceTick:
				if err := p.announce(); err != nil {
					p.logger.Warn("failed to announce", zap.Error(err))
				}
			}
		}
	})

	return g.Wait()
}

func (p *port) receive(ctx context.Context, c chan<- *Frame) error {
	buf := make([]byte, snapLen)

	for {
		n, _, err := p.conn.ReadFrom(buf)
		if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
			return nil
		} else if err != nil {
			return fmt.Errorf("failed to read from %s: %w", p.iface.Name, err)
		}

		f, err := DecodeFrame(buf[:n])
		if errors.Is(err, ErrNotLLDP) {
			continue
		} else if err != nil {
			p.logger.Debug("dropping invalid LLDPDU", zap.Error(err))
			continue
		}

		// Our own announcements, looped back.
		if bytes.Equal(f.Src, p.iface.HardwareAddr) {
			continue
		}

		if !f.LLDPDU.Complete() {
			p.logger.Debug("dropping incomplete LLDPDU", zap.Stringer("src", f.Src))
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case c <- f:
		}
	}
}

func (p *port) handleFrame(f *Frame) {
	p.logger.Info("received LLDPDU", zap.Stringer("src", f.Src), zap.Array("tlvs", f.LLDPDU))
	p.neighbors.Update(p.iface.Name, f.Src, f.LLDPDU, time.Now())
}

func (p *port) announce() error {
	du, err := p.system.lldpdu(p.iface, p.conf)
	if err != nil {
		return err
	}

	b, err := EncodeFrame(p.dst, p.iface.HardwareAddr, du)
	if err != nil {
		return err
	}

	if _, err := p.conn.WriteTo(b, hardwareAddr(p.dst)); err != nil {
		return fmt.Errorf("failed to send on %s: %w", p.iface.Name, err)
	}

	p.logger.Debug("sent LLDPDU", zap.Int("size", du.Size()))

	return nil
}
