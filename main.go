package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/jawher/mow.cli"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bilbercode/rtsp-server/internal/admin"
	"github.com/bilbercode/rtsp-server/internal/pusher"
	"github.com/bilbercode/rtsp-server/internal/rtsp"
	"github.com/bilbercode/rtsp-server/internal/source"
)

const (
	appName = "rtsp-server"
	appDesc = "H.264 RTSP streaming server"
)

func main() {

	app := cli.App(appName, appDesc)

	listenAddr := app.String(cli.StringOpt{
		Name:   "listen",
		Desc:   "RTSP listen address",
		EnvVar: "RTSP_LISTEN",
		Value:  ":8554",
	})

	adminAddr := app.String(cli.StringOpt{
		Name:   "admin.listen",
		Desc:   "admin and metrics HTTP listen address, empty to disable",
		EnvVar: "ADMIN_LISTEN",
		Value:  ":8080",
	})

	streams := app.Strings(cli.StringsOpt{
		Name:   "stream",
		Desc:   "stream names to register at start up",
		EnvVar: "STREAMS",
		Value:  []string{"live"},
	})

	sourceFile := app.String(cli.StringOpt{
		Name:   "source",
		Desc:   "H.264 Annex-B file looped into every registered stream",
		EnvVar: "SOURCE_FILE",
		Value:  "",
	})

	frameRate := app.Int(cli.IntOpt{
		Name:   "fps",
		Desc:   "frame rate used to pace the source and stamp RTP packets",
		EnvVar: "SOURCE_FPS",
		Value:  25,
	})

	rtpHost := app.String(cli.StringOpt{
		Name:   "rtp.host",
		Desc:   "host receiving RTP when the client names no destination",
		EnvVar: "RTP_HOST",
		Value:  "127.0.0.1",
	})

	readTimeout := app.String(cli.StringOpt{
		Name:   "read-timeout",
		Desc:   "connection read timeout, bounds shutdown latency",
		EnvVar: "READ_TIMEOUT",
		Value:  "1s",
	})

	logLevel := app.String(cli.StringOpt{
		Name:   "log.level",
		Desc:   "log level",
		EnvVar: "LOG_LEVEL",
		Value:  "info",
	})

	logJSON := app.Bool(cli.BoolOpt{
		Name:   "log.json",
		Desc:   "log as JSON",
		EnvVar: "LOG_JSON",
		Value:  false,
	})

	app.Action = func() {
		level, err := log.ParseLevel(*logLevel)
		if err != nil {
			log.WithError(err).Panic("failed to parse log level")
		}
		log.SetLevel(level)
		if *logJSON {
			log.SetFormatter(&log.JSONFormatter{})
		}

		timeout, err := time.ParseDuration(*readTimeout)
		if err != nil {
			log.WithError(err).Panic("failed to parse read timeout")
		}

		rtspServer := rtsp.NewServer(rtsp.Config{
			ReadTimeout: timeout,
			RTPHost:     *rtpHost,
			Dial: func(dest rtsp.Destination) (rtsp.FramePusher, error) {
				p, err := pusher.Dial(pusher.Config{
					Host:      dest.Host,
					RTPPort:   dest.RTPPort,
					RTCPPort:  dest.RTCPPort,
					FrameRate: *frameRate,
				})
				if err != nil {
					return nil, err
				}
				return p, nil
			},
		})
		for _, name := range *streams {
			rtspServer.AddStream(name)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		group, ctx := errgroup.WithContext(ctx)

		group.Go(func() error {
			return rtspServer.ListenAndServe(ctx, *listenAddr)
		})

		if *adminAddr != "" {
			adminServer := admin.NewServer(*adminAddr, rtspServer)
			group.Go(func() error {
				return adminServer.Start(ctx)
			})
		}

		if *sourceFile != "" {
			for _, name := range *streams {
				svc, err := source.NewFileService(*sourceFile, rtspServer, source.Config{
					Stream:    name,
					FrameRate: *frameRate,
				})
				if err != nil {
					log.WithError(err).Panic("failed to open source")
				}
				group.Go(func() error {
					return svc.Start(ctx)
				})
			}
		}

		group.Go(func() error {
			<-ctx.Done()
			log.Info("shutting down")
			rtspServer.Shutdown()
			return nil
		})

		err = group.Wait()
		if err != nil {
			log.WithError(err).Panic("stopped")
		}
	}

	err := app.Run(os.Args)
	if err != nil {
		log.WithError(err).Panic("failed to execute application")
	}
}
