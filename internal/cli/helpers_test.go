package cli

import "provider-generator/internal/logger"

func testLogger() logger.Logger {
	return logger.NewLogger(logger.TestConfig())
}
