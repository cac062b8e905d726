package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"

	"limitless/fixcodec"
	"limitless/internal/config"
	"limitless/internal/dashboard"
	"limitless/internal/queue"
	"limitless/matching"
	"limitless/quote"
	"limitless/risk"
)

func main() {
	configPath := flag.String("config", "", "path to a key=value settings file; built-in defaults are used if omitted")
	symbol := flag.String("symbol", "LMT", "symbol this engine instance trades")
	tradeLogPath := flag.String("trade-log", "trades.csv", "path to the append-only trade CSV log")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logrus.WithError(err).Fatal("load config")
		}
		cfg = loaded
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LoggingLevel); err == nil {
		logger.SetLevel(level)
	}
	if cfg.LoggingFile != "" {
		f, err := os.OpenFile(cfg.LoggingFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			logger.WithError(err).Fatal("open log file")
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	tradeLog, err := os.OpenFile(*tradeLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.WithError(err).Fatal("open trade log")
	}
	defer tradeLog.Close()

	limits := risk.DefaultLimits()
	if cfg.MaxOrderSize > 0 {
		limits.MaxOrderSize = quote.Quantity(cfg.MaxOrderSize)
	}
	if cfg.MaxPositionSize > 0 {
		limits.MaxPositionSize = int64(cfg.MaxPositionSize)
	}
	if cfg.MaxDailyLoss > 0 {
		limits.MaxDailyLoss = cfg.MaxDailyLoss
	}
	riskManager := risk.New(limits)

	eng := matching.New(quote.Symbol(*symbol), quote.SystemClock{})
	codec := fixcodec.New()
	hub := dashboard.NewHub(logger)

	eng.SetTradeObserver(func(trade quote.Trade, aggressor quote.Side) {
		hub.Broadcast(dashboard.BuildTrade(trade))
		if _, err := tradeLog.WriteString(trade.CSV() + "\n"); err != nil {
			logger.WithError(err).Warn("write trade log")
		}
		riskManager.Update(trade, aggressor)
	})
	eng.SetOrderObserver(func(order *quote.Order) {
		hub.Broadcast(dashboard.BuildSnapshot(eng.Book(), int64(quote.SystemClock{}.Now())))
		hub.Broadcast(dashboard.BuildStatistics(eng.Book(), eng.Stats.Snapshot(), int64(quote.SystemClock{}.Now())))
	})

	cmdQueue := queue.New(4096)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runConsumer(ctx, cmdQueue, eng, riskManager, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/dashboard", hub.ServeWS)
	mux.HandleFunc("/fix", fixIngressHandler(codec, cmdQueue, logger))

	addr := ":" + strconv.Itoa(cfg.DashboardPort)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.WithField("addr", addr).Info("dashboard listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("dashboard server error")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	cmdQueue.Close()
	_ = server.Close()
}

// runConsumer is the engine's single logical executor: it drains
// cmdQueue and is the only goroutine ever allowed to touch eng or
// riskManager's mutating methods.
func runConsumer(ctx context.Context, q *queue.Queue, eng *matching.Engine, riskManager *risk.Manager, log *logrus.Logger) {
	for {
		cmd, ok := q.Next(ctx)
		if !ok {
			return
		}
		switch cmd.Kind {
		case fixcodec.CommandNew:
			referencePrice := cmd.Order.Price.ToFloat()
			if cmd.Order.Type == quote.Market {
				// A market order has no limit price of its own; the risk
				// check needs the price the order would actually trade
				// at, which is the opposite side's best quote.
				if cmd.Order.Side == quote.Buy {
					if best, ok := eng.Book().BestAsk(); ok {
						referencePrice = best.ToFloat()
					}
				} else {
					if best, ok := eng.Book().BestBid(); ok {
						referencePrice = best.ToFloat()
					}
				}
			}
			if result := riskManager.Validate(cmd.Order, referencePrice); result != risk.Accepted {
				log.WithFields(logrus.Fields{"order_id": cmd.Order.ID, "reason": result}).Warn("order rejected by risk manager")
				continue
			}
			eng.Submit(cmd.Order)
		case fixcodec.CommandCancel:
			eng.Cancel(cmd.OrderID)
		case fixcodec.CommandModify:
			eng.Modify(cmd.OrderID, cmd.NewPrice, cmd.NewQty)
		}
	}
}

func fixIngressHandler(codec fixcodec.Codec, q *queue.Queue, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		buf, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		msg := codec.Parse(buf)
		cmd, ok := codec.ToCommand(msg)
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := q.TrySubmit(cmd); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}
