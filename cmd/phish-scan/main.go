package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/mailrisk/phish-scorer/internal/core"
	"github.com/mailrisk/phish-scorer/internal/di"
	"github.com/mailrisk/phish-scorer/internal/ports"
)

const (
	maxHeaderBytes = 50000
	maxBodyBytes   = 500000
)

func main() {
	flags := di.ParseFlags()

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	emailFrontend ports.EmailFrontend,
	aiAnalyzer core.AIAnalyzer,
	postureCache core.PostureCache,
	flags *di.CLIFlags,
) error {
	defer logger.Sync()

	input, err := readEmail(flags, logger)
	if err != nil {
		return err
	}

	if err := emailFrontend.Start(); err != nil {
		return err
	}

	result, err := emailFrontend.ProcessEmail(context.Background(), *input)
	if err != nil {
		return err
	}

	if err := emailFrontend.Stop(); err != nil {
		logger.Error("Failed to stop frontend", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := aiAnalyzer.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close AI client", zap.Error(err))
		}
	}

	// Stop the cache if needed
	if stopper, ok := postureCache.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	if flags.FailHigh && result.RiskLevel == core.RiskHigh {
		logger.Sync()
		os.Exit(2)
	}

	return nil
}

// readEmail reads an RFC 822 message from the input file or stdin and
// splits it into the raw header block, the sender address and the body.
func readEmail(flags *di.CLIFlags, logger *zap.Logger) (*core.EmailInput, error) {
	var emailReader io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file %s: %w", flags.InputFile, err)
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", flags.InputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	raw, err := io.ReadAll(bufio.NewReader(emailReader))
	if err != nil {
		return nil, fmt.Errorf("failed to read email: %w", err)
	}

	rawHeaders, body := splitMessage(raw)
	if len(rawHeaders) > maxHeaderBytes {
		return nil, fmt.Errorf("header block exceeds %d bytes", maxHeaderBytes)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxBodyBytes)
	}

	sender := extractSender(raw, logger)
	if sender == "" {
		return nil, fmt.Errorf("email has no usable From address")
	}

	return &core.EmailInput{
		Sender:  sender,
		Headers: rawHeaders,
		Body:    body,
	}, nil
}

// splitMessage separates the raw header block from the body at the first
// blank line. A message without a blank line is treated as all headers.
func splitMessage(raw []byte) (string, string) {
	normalized := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	if idx := bytes.Index(normalized, []byte("\n\n")); idx >= 0 {
		return string(normalized[:idx]), string(normalized[idx+2:])
	}
	return string(normalized), ""
}

// extractSender pulls the address out of the From header.
func extractSender(raw []byte, logger *zap.Logger) string {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		logger.Warn("Failed to parse email message", zap.Error(err))
		return ""
	}
	from := msg.Header.Get("From")
	if from == "" {
		return ""
	}
	if addr, err := mail.ParseAddress(from); err == nil {
		return addr.Address
	}
	// Display-name-free or slightly malformed addresses still carry a
	// usable domain
	return strings.TrimSpace(from)
}
