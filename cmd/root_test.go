package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webCredentials = `{"web": {"client_id":"A","project_id":"P","auth_uri":"U1","token_uri":"U2","auth_provider_x509_cert_url":"U3","client_secret":"S"}}`

const convertedOut = "✅ Converted web credentials to desktop app format\n" +
	"💡 Try using 'credentials_desktop.json' in your script\n" +
	"⚠️  You still need to configure the OAuth consent screen properly\n"

func executeRootCmd(args ...string) (string, error) {
	buff := new(bytes.Buffer)

	cmd := createRootCmd()
	cmd.SetOut(buff)
	cmd.SetErr(buff)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buff.String(), err
}

// chdir switches to dir for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()

	saved, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() {
		os.Chdir(saved)
	})
}

func TestRootCmdDefaults(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("credentials.json", []byte(webCredentials), 0600))

	out, err := executeRootCmd()
	require.NoError(t, err)
	assert.Equal(t, convertedOut, out)

	content, err := os.ReadFile(filepath.Join(dir, "credentials_desktop.json"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"redirect_uris": [`)
	assert.Contains(t, string(content), `"client_secret": "S"`)
}

func TestRootCmd(t *testing.T) {
	cases := []struct {
		description string
		input       string
		args        []string
		expectedOut string
		expectedErr string
		wantOutput  bool
	}{
		{
			description: "Should convert web credentials",
			input:       webCredentials,
			expectedOut: "Converted web credentials to desktop app format",
			wantOutput:  true,
		},
		{
			description: "Should NOT convert credentials that are already installed",
			input:       `{"installed": {"client_id":"A"}}`,
			expectedOut: "❌ Credentials are already in the correct format\n",
		},
		{
			description: "Should fail on malformed json",
			input:       `{"web":`,
			expectedErr: "unable to parse",
		},
		{
			description: "Should fail when a field is missing",
			input:       `{"web": {"client_id":"A","project_id":"P","auth_uri":"U1","token_uri":"U2","auth_provider_x509_cert_url":"U3"}}`,
			expectedErr: "missing required field(s): client_secret",
		},
		{
			description: "Should reject positional arguments",
			input:       webCredentials,
			args:        []string{"extra"},
			expectedErr: "unknown command \"extra\"",
		},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "credentials.json")
			output := filepath.Join(dir, "credentials_desktop.json")
			require.NoError(t, os.WriteFile(input, []byte(c.input), 0600))

			args := append([]string{"--input", input, "--output", output}, c.args...)
			out, err := executeRootCmd(args...)

			if c.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), c.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Contains(t, out, c.expectedOut)
			}

			_, statErr := os.Stat(output)
			assert.Equal(t, c.wantOutput, statErr == nil, "unexpected output file state")
		})
	}
}

func TestRootCmdMissingInput(t *testing.T) {
	dir := t.TempDir()

	_, err := executeRootCmd("--input", filepath.Join(dir, "credentials.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials file not found")
}

func TestRootCmdOutputName(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "credentials.json")
	output := filepath.Join(dir, "desktop.json")
	require.NoError(t, os.WriteFile(input, []byte(webCredentials), 0600))

	out, err := executeRootCmd("-i", input, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Try using '"+output+"' in your script")
}

func TestRootCmdEnvAndConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "web.json")
	envOutput := filepath.Join(dir, "from-env.json")
	fileOutput := filepath.Join(dir, "from-file.json")
	require.NoError(t, os.WriteFile(input, []byte(webCredentials), 0600))

	cfg := filepath.Join(dir, "credfix.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("input: "+input+"\noutput: "+fileOutput+"\n"), 0600))

	t.Run("Should read paths from the config file", func(t *testing.T) {
		_, err := executeRootCmd("--config", cfg)
		require.NoError(t, err)
		assert.FileExists(t, fileOutput)
	})

	t.Run("Should let env vars override the config file", func(t *testing.T) {
		t.Setenv("CREDFIX_OUTPUT", envOutput)

		_, err := executeRootCmd("--config", cfg)
		require.NoError(t, err)
		assert.FileExists(t, envOutput)
	})

	t.Run("Should fail on a missing config file", func(t *testing.T) {
		_, err := executeRootCmd("--config", filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})
}

func TestRootCmdWritesStatusToOut(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "credentials.json")
	output := filepath.Join(dir, "credentials_desktop.json")
	require.NoError(t, os.WriteFile(input, []byte(webCredentials), 0600))

	outBuff := new(bytes.Buffer)
	errBuff := new(bytes.Buffer)

	cmd := createRootCmd()
	cmd.SetOut(outBuff)
	cmd.SetErr(errBuff)
	cmd.SetArgs([]string{"-i", input, "-o", "credentials_desktop.json"})

	chdir(t, dir)
	require.NoError(t, cmd.Execute())

	assert.Equal(t, convertedOut, outBuff.String())
	assert.Empty(t, errBuff.String())
	assert.FileExists(t, output)
}

func TestRootCmdCopiesValuesAsFound(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "credentials.json")
	output := filepath.Join(dir, "credentials_desktop.json")
	require.NoError(t, os.WriteFile(input, []byte(
		`{"web": {"client_id":null,"project_id":123,"auth_uri":"U1","token_uri":"U2","auth_provider_x509_cert_url":"U3","client_secret":"S"}}`,
	), 0600))

	out, err := executeRootCmd("-i", input, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Converted web credentials to desktop app format")

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"client_id": null,`)
	assert.Contains(t, string(content), `"project_id": 123,`)
}
