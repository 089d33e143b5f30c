package main

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pratyushrajshrestha/portfolio/internal/content"
	"github.com/pratyushrajshrestha/portfolio/internal/countup"
)

// stopGrace bounds how long a cancelled stream waits for its animator to
// release the pending frame.
const stopGrace = time.Second

// statStream plays the count-up of one hero stat as server-sent events:
// a "count" event per frame carrying the rendered text, then "done".
func (s *server) statStream(c *gin.Context) {
	doc := s.content.Get()
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 || idx >= len(doc.Stats) {
		c.Status(http.StatusNotFound)
		return
	}
	v := content.ParseStat(doc.Stats[idx].Value)
	if !v.Animated {
		c.Status(http.StatusNotFound)
		return
	}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	loop := countup.NewLoop(s.cfg.FrameRate)
	go loop.Run(loopCtx)

	// frames holds the latest text only; a slow client skips frames.
	frames := make(chan string, 1)
	done := make(chan struct{})
	var a *countup.Animator
	a = countup.New(loop, v.Target,
		countup.WithSuffix(v.Suffix),
		countup.WithDuration(s.cfg.CountupDuration),
		countup.OnUpdate(func(int) {
			select {
			case <-frames:
			default:
			}
			frames <- a.Text()
			if a.State() == countup.Terminal {
				close(done)
			}
		}))
	loop.Post(a.Start)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	emit := func(event, data string) {
		c.SSEvent(event, data)
		c.Writer.Flush()
	}

	for {
		select {
		case text := <-frames:
			emit("count", text)
		case <-done:
			select {
			case text := <-frames:
				emit("count", text)
			default:
			}
			emit("done", "")
			s.metrics.CountupStream("complete")
			return
		case <-c.Request.Context().Done():
			stopped := make(chan struct{})
			loop.Post(func() {
				a.Stop()
				slog.Debug("Count-up stream cancelled", slog.Int("stat", idx), slog.String("shown", a.Text()))
				close(stopped)
			})
			select {
			case <-stopped:
			case <-time.After(stopGrace):
			}
			s.metrics.CountupStream("cancelled")
			return
		}
	}
}
