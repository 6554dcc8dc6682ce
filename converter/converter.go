package converter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/Daskott/credfix/googleservice"
	"github.com/Daskott/credfix/types"
	"github.com/Daskott/credfix/utils"
	"github.com/go-playground/validator"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	webKey       = "web"
	installedKey = "installed"
)

type Outcome int

const (
	// Failed is returned with every error.
	Failed Outcome = iota
	// AlreadyInstalled means the input had no web credentials and nothing was written.
	AlreadyInstalled
	Converted
)

func (o Outcome) String() string {
	switch o {
	case Failed:
		return "failed"
	case Converted:
		return "converted"
	case AlreadyInstalled:
		return "already-installed"
	}
	return "unknown"
}

type Converter struct {
	logg     *zap.SugaredLogger
	validate *validator.Validate
}

func New(logg *zap.SugaredLogger) *Converter {
	validate := validator.New()

	// Report json names in validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Converter{logg: logg, validate: validate}
}

// Run converts the web credentials in inputPath to installed credentials
// written to outputPath. Nothing is written unless the whole conversion succeeds.
func (c *Converter) Run(inputPath, outputPath string) (Outcome, error) {
	c.logg.Debugf("reading credentials from %s", inputPath)

	creds, err := Load(inputPath)
	if err != nil {
		return Failed, err
	}

	rawWeb, ok := creds[webKey]
	if !ok {
		c.logg.Debugf("no '%s' key in %s", webKey, inputPath)
		c.inspectInstalled(inputPath, creds)
		return AlreadyInstalled, nil
	}

	web, err := c.decodeWeb(inputPath, rawWeb)
	if err != nil {
		return Failed, err
	}

	content, err := Marshal(ToInstalled(web))
	if err != nil {
		return Failed, err
	}

	err = utils.CreateDirIfNotExist(filepath.Dir(outputPath))
	if err != nil {
		return Failed, errors.Wrapf(err, "unable to create directory for %s", outputPath)
	}

	exists, err := utils.FileExist(outputPath)
	if err != nil {
		return Failed, errors.Wrapf(err, "unable to stat %s", outputPath)
	}
	if exists {
		c.logg.Debugf("overwriting existing %s", outputPath)
	}

	err = os.WriteFile(outputPath, content, 0600)
	if err != nil {
		return Failed, errors.Wrapf(err, "unable to write %s", outputPath)
	}

	c.logg.Debugf("wrote installed credentials to %s", outputPath)

	return Converted, nil
}

// Load reads path and returns its top level JSON object.
func Load(path string) (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrFileNotFound, path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	creds := map[string]json.RawMessage{}
	err = json.Unmarshal(b, &creds)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	// A literal null decodes without error
	if creds == nil {
		return nil, &ParseError{Path: path, Err: errors.New("expected a JSON object")}
	}

	return creds, nil
}

// inspectInstalled loads credentials that need no conversion the way a desktop
// client would and logs what it finds. It never fails the run.
func (c *Converter) inspectInstalled(path string, creds map[string]json.RawMessage) {
	if _, ok := creds[installedKey]; !ok {
		c.logg.Warnf("%s has neither '%s' nor '%s' credentials", path, webKey, installedKey)
		return
	}

	b, err := json.Marshal(map[string]json.RawMessage{installedKey: creds[installedKey]})
	if err != nil {
		c.logg.Warnf("unable to inspect %s: %v", path, err)
		return
	}

	config, err := googleservice.NewInstalledAppConfig(b)
	if err != nil {
		c.logg.Warnf("%s may not load in a desktop flow: %v", path, err)
		return
	}

	c.logg.Debugf("installed client %s redirects to %s", config.ClientID, config.RedirectURL)
}

func (c *Converter) decodeWeb(path string, raw json.RawMessage) (types.ClientConfig, error) {
	web := types.ClientConfig{}

	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return web, &ParseError{Path: path, Err: errors.Errorf("'%s' is not a JSON object", webKey)}
	}

	err := json.Unmarshal(raw, &web)
	if err != nil {
		return web, &ParseError{Path: path, Err: err}
	}

	err = c.validate.Struct(web)
	if err == nil {
		return web, nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return web, errors.Wrap(err, "unable to validate web credentials")
	}

	missing := &MissingFieldError{}
	for _, fieldErr := range validationErrs {
		missing.Fields = append(missing.Fields, fieldErr.Field())
	}

	return web, missing
}

// ToInstalled projects web credentials onto the installed shape, copying each
// value as found.
func ToInstalled(web types.ClientConfig) types.InstalledCredentials {
	return types.InstalledCredentials{
		Installed: types.InstalledConfig{
			ClientId:                web.ClientId,
			ProjectId:               web.ProjectId,
			AuthURI:                 web.AuthURI,
			TokenURI:                web.TokenURI,
			AuthProviderx509CertURL: web.AuthProviderx509CertURL,
			ClientSecret:            web.ClientSecret,
			RedirectUris:            []string{types.RedirectURI},
		},
	}
}

// Marshal encodes creds with a two space indent and no trailing newline.
// Raw values keep their bytes, so non-ASCII text stays UTF-8 and escapes in
// the input are kept as written.
func Marshal(creds types.InstalledCredentials) ([]byte, error) {
	buff := new(bytes.Buffer)

	encoder := json.NewEncoder(buff)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(creds)
	if err != nil {
		return nil, errors.Wrap(err, "unable to encode installed credentials")
	}

	return bytes.TrimRight(buff.Bytes(), "\n"), nil
}
