package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/nanofish-go/nanofish/packages/client"
	"github.com/nanofish-go/nanofish/packages/header"
	"github.com/nanofish-go/nanofish/packages/history"
	"github.com/nanofish-go/nanofish/packages/reqfile"
	"github.com/nanofish-go/nanofish/packages/request"
	"github.com/nanofish-go/nanofish/packages/response"
)

const watchDebounce = 150 * time.Millisecond

var (
	sendEngine      engineFlags
	sendMethod      string
	sendData        string
	sendDataFile    string
	sendHeaders     []string
	sendFile        string
	sendOutput      string
	sendExtract     string
	sendSchema      string
	sendHistoryPath string
	sendWatch       bool
	sendNoColor     bool
)

var sendCmd = &cobra.Command{
	Use:   "send [url]",
	Short: "Send one request and print the response",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSend,
}

func init() {
	sendEngine.register(sendCmd)
	sendCmd.Flags().StringVarP(&sendMethod, "method", "X", "GET", "HTTP method")
	sendCmd.Flags().StringVarP(&sendData, "data", "d", "", "Request body")
	sendCmd.Flags().StringVar(&sendDataFile, "data-file", "", "Read the request body from a file")
	sendCmd.Flags().StringArrayVarP(&sendHeaders, "header", "H", nil, "Request header \"Name: Value\" (repeatable)")
	sendCmd.Flags().StringVarP(&sendFile, "file", "f", "", "Load the request from a YAML file")
	sendCmd.Flags().StringVarP(&sendOutput, "output", "o", "", "Write the response body to a file")
	sendCmd.Flags().StringVar(&sendExtract, "extract", "", "Print only this gjson path from a JSON body")
	sendCmd.Flags().StringVar(&sendSchema, "schema", "", "Validate a JSON body against this JSON Schema file")
	sendCmd.Flags().StringVar(&sendHistoryPath, "history", "", "Record the call in this SQLite history database")
	sendCmd.Flags().BoolVarP(&sendWatch, "watch", "w", false, "Re-send whenever the request file changes (needs -f)")
	sendCmd.Flags().BoolVar(&sendNoColor, "no-color", false, "Disable colored output")
}

// sendSpec is one fully assembled request, from flags or a request file.
type sendSpec struct {
	method   request.Method
	endpoint string
	headers  header.Set
	body     []byte
}

func loadSpec(args []string) (*sendSpec, error) {
	if sendFile != "" {
		f, err := reqfile.Load(sendFile)
		if err != nil {
			return nil, err
		}
		body, err := f.BodyBytes()
		if err != nil {
			return nil, err
		}
		return &sendSpec{
			method:   f.RequestMethod(),
			endpoint: f.URL,
			headers:  f.HeaderSet(),
			body:     body,
		}, nil
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("either a url argument or -f is required")
	}

	method, ok := request.ParseMethod(sendMethod)
	if !ok {
		return nil, fmt.Errorf("unsupported method %q", sendMethod)
	}
	headers, err := parseHeaderFlags(sendHeaders)
	if err != nil {
		return nil, err
	}

	var body []byte
	switch {
	case sendData != "" && sendDataFile != "":
		return nil, fmt.Errorf("--data and --data-file are mutually exclusive")
	case sendData != "":
		body = []byte(sendData)
	case sendDataFile != "":
		body, err = os.ReadFile(sendDataFile)
		if err != nil {
			return nil, err
		}
	}

	return &sendSpec{method: method, endpoint: args[0], headers: headers, body: body}, nil
}

func runSend(cmd *cobra.Command, args []string) error {
	if sendNoColor {
		color.NoColor = true
	}
	if sendWatch && sendFile == "" {
		return fmt.Errorf("--watch requires a request file (-f)")
	}

	var store *history.Store
	if sendHistoryPath != "" {
		var err error
		store, err = history.Open(sendHistoryPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	c := sendEngine.newClient()

	if !sendWatch {
		spec, err := loadSpec(args)
		if err != nil {
			return err
		}
		return sendOnce(cmd, c, spec, store)
	}
	return watchAndSend(cmd, c, args, store)
}

func sendOnce(cmd *cobra.Command, c *client.Client, spec *sendSpec, store *history.Store) error {
	respBuf := make([]byte, sendEngine.bufferSize)

	start := time.Now()
	resp, n, err := c.Do(cmd.Context(), spec.method, spec.endpoint, &spec.headers, spec.body, respBuf)
	elapsed := time.Since(start)

	if store != nil {
		entry := history.Entry{
			StartedAt: start,
			Method:    spec.method.String(),
			URL:       spec.endpoint,
			BytesRead: n,
			Duration:  elapsed,
		}
		if resp != nil {
			entry.Status = int(resp.StatusCode)
			entry.BodyKind = resp.Body.Kind().String()
		}
		if err != nil {
			entry.Error = err.Error()
		}
		if _, rerr := store.Record(cmd.Context(), entry); rerr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), rerr)
		}
	}

	if err != nil {
		return err
	}
	return renderResponse(cmd, resp, n, elapsed)
}

func renderResponse(cmd *cobra.Command, resp *response.Response, n int, elapsed time.Duration) error {
	out := cmd.OutOrStdout()
	statusColor := color.New(color.FgGreen)
	switch {
	case resp.IsRedirect():
		statusColor = color.New(color.FgYellow)
	case resp.IsClientError(), resp.IsServerError():
		statusColor = color.New(color.FgRed)
	}

	fmt.Fprintf(out, "%s %s  (%d bytes in %s)\n",
		statusColor.Sprintf("%d", resp.StatusCode),
		statusColor.Sprint(resp.StatusCode.String()),
		n, elapsed.Round(time.Millisecond))

	cyan := color.New(color.FgCyan).SprintFunc()
	for _, h := range resp.Headers.All() {
		fmt.Fprintf(out, "%s: %s\n", cyan(h.Name), h.Value)
	}
	fmt.Fprintln(out)

	if sendSchema != "" {
		if err := validateSchema(cmd, resp); err != nil {
			return err
		}
	}

	if sendOutput != "" {
		if err := os.WriteFile(sendOutput, resp.Body.Bytes(), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %d body bytes to %s\n", resp.Body.Len(), sendOutput)
		return nil
	}

	if sendExtract != "" {
		result := gjson.Get(resp.Body.Text(), sendExtract)
		if !result.Exists() {
			return fmt.Errorf("path %q not found in response body", sendExtract)
		}
		fmt.Fprintln(out, result.String())
		return nil
	}

	switch resp.Body.Kind() {
	case response.BodyText:
		fmt.Fprintln(out, resp.Body.Text())
	case response.BodyBinary:
		fmt.Fprintf(out, "[%d bytes of binary data; use -o to save]\n", resp.Body.Len())
	}
	return nil
}

func validateSchema(cmd *cobra.Command, resp *response.Response) error {
	abs, err := filepath.Abs(sendSchema)
	if err != nil {
		return err
	}
	schemaLoader := gojsonschema.NewReferenceLoader("file://" + abs)
	docLoader := gojsonschema.NewStringLoader(resp.Body.Text())

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		for _, desc := range result.Errors() {
			fmt.Fprintf(cmd.ErrOrStderr(), "schema: %s\n", desc)
		}
		return fmt.Errorf("response body failed schema validation")
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("schema: valid"))
	return nil
}

// watchAndSend re-sends the request file whenever it is written to.
func watchAndSend(cmd *cobra.Command, c *client.Client, args []string, store *history.Store) error {
	doSend := func() {
		spec, err := loadSpec(args)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			return
		}
		if err := sendOnce(cmd, c, spec, store); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}
	doSend()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save.
	if err := watcher.Add(filepath.Dir(sendFile)); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s for changes...\n", sendFile)

	var timer *time.Timer
	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(sendFile) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, doSend)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), werr)
		}
	}
}
