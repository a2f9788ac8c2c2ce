// Package audit 將拍賣過程的關鍵動作寫入 Redis Stream，
// 作為場次之外的稽核軌跡。寫入失敗只記錄日誌，不影響拍賣進行。
package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/smallnest/chanx"
)

var ErrProducerClosed = errors.New("producer is closed")

type producerOptions struct {
	logger     *slog.Logger
	bufferSize int
}

type ProducerOption func(*producerOptions)

// WithProducerLogger 設置日誌記錄器
func WithProducerLogger(logger *slog.Logger) ProducerOption {
	return func(o *producerOptions) {
		o.logger = logger
	}
}

// WithProducerBufferSize 設置緩衝大小
func WithProducerBufferSize(size int) ProducerOption {
	return func(o *producerOptions) {
		o.bufferSize = size
	}
}

// IProducer 定義了稽核軌跡的操作介面
type IProducer interface {
	Start()
	Publish(entry Entry) error
	Close()
}

// Producer 以背景 goroutine 將稽核紀錄寫入 Redis Stream，
// Publish 只把紀錄放進無界緩衝，不會阻塞呼叫端
type Producer struct {
	client     *redis.Client
	stream     string
	upstream   *chanx.UnboundedChan[Entry]
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	closed     bool
	logger     *slog.Logger
	options    producerOptions
}

func NewProducer(client *redis.Client, stream string, opts ...ProducerOption) (*Producer, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if stream == "" {
		return nil, errors.New("stream cannot be empty")
	}

	// 默認選項
	options := producerOptions{
		logger:     slog.Default(),
		bufferSize: 100,
	}

	// 應用自定義選項
	for _, opt := range opts {
		opt(&options)
	}

	return &Producer{
		client:  client,
		stream:  stream,
		closed:  true,
		logger:  options.logger.With(slog.String("caller", "AuditProducer"), slog.String("stream", stream)),
		options: options,
	}, nil
}

func (p *Producer) Start() {
	if !p.closed {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.upstream = chanx.NewUnboundedChan[Entry](ctx, p.options.bufferSize)
	p.cancelFunc = cancel
	p.closed = false
	p.logger.Info("starting audit producer")

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.logger.Info("audit producer goroutine stopped")

		for {
			select {
			case <-ctx.Done():
				return
			case entry := <-p.upstream.Out:
				message, err := encodeEntry(entry)
				if err != nil {
					p.logger.Error("encode entry error", slog.Any("error", err))
					continue
				}
				id, err := p.client.XAdd(ctx, &redis.XAddArgs{
					Stream: p.stream,
					Values: message,
				}).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return
					}
					p.logger.Error("publish entry error", slog.Any("error", err))
					continue
				}
				p.logger.Debug("entry published", slog.String("messageId", id), slog.String("action", entry.Action))
			}
		}
	}()
}

func (p *Producer) Publish(entry Entry) error {
	if p.closed {
		return ErrProducerClosed
	}
	p.upstream.In <- entry
	return nil
}

func (p *Producer) Close() {
	if p.closed {
		return
	}
	p.logger.Info("closing audit producer")
	p.closed = true
	p.cancelFunc()
	p.wg.Wait()
	p.logger.Info("audit producer closed")
}
