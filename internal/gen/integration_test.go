package gen_test

import "testing"

func TestIntegration_ServiceExample(t *testing.T) {
	runExampleIntegrationTest(t, "service")
}

func TestIntegration_BasicExample(t *testing.T) {
	runExampleIntegrationTest(t, "basic")
}

func TestIntegration_OptionsExample(t *testing.T) {
	runExampleIntegrationTest(t, "options")
}
