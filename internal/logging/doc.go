// Package logging provides structured logging with OpenTelemetry
// integration for forge.
//
// # Overview
//
// The package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Dual output (stdout + OpenTelemetry log bridge)
//   - Automatic context field injection (trace_id, project, session.id, run.id)
//   - Defense-in-depth secret redaction
//   - Level-aware sampling (errors never sampled)
//
// # Usage
//
// Create a logger from config:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
// Log with context:
//
//	ctx = logging.WithProject(ctx, "my_app")
//	ctx = logging.WithSessionID(ctx, sessionID)
//	logger.Info(ctx, "phase completed", zap.String("phase", "components"))
//
// # Secret Redaction
//
// Secrets are redacted at multiple layers: the config.Secret type, the
// encoder's field-name filter, and the encoder's pattern matching. Use
// logging.Secret or logging.RedactedString for manual redaction.
//
// # Testing
//
// TestLogger captures entries for assertions:
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "spec saved")
//	tl.AssertLogged(t, zapcore.InfoLevel, "spec saved")
//	tl.AssertNoSecrets(t)
package logging
