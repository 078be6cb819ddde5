// Command uploader posts a new episode to a podhost server. The
// description file is markdown and is rendered to HTML before sending.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
)

type options struct {
	baseURL     string
	slug        string
	title       string
	author      string
	description string
	image       string
	publicImage string
	name        string
	user        string
	password    string
	publish     bool
}

var opts options

var rootCmd = &cobra.Command{
	Use:          "uploader [flags] <audio-file>",
	Short:        "Upload a podcast episode",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&opts.baseURL, "base-url", "b", "", "server base URL (default env PODHOST_URL)")
	flags.StringVarP(&opts.slug, "slug", "s", "", "podcast slug")
	flags.StringVarP(&opts.title, "title", "t", "", "episode title")
	flags.StringVarP(&opts.author, "author", "a", "", "episode author")
	flags.StringVarP(&opts.description, "description", "d", "", "markdown description file")
	flags.StringVarP(&opts.image, "image", "i", "", "image file")
	flags.StringVarP(&opts.publicImage, "public-image", "l", "", "public image URL")
	flags.StringVarP(&opts.name, "name", "n", "", "override the uploaded audio file name")
	flags.StringVarP(&opts.user, "user", "u", "", "basic auth user (default env PODHOST_USER)")
	flags.StringVarP(&opts.password, "password", "p", "", "basic auth password (default env PODHOST_PASSWORD)")
	flags.BoolVarP(&opts.publish, "publish", "e", false, "publish the episode immediately")
	rootCmd.MarkFlagRequired("slug")
	rootCmd.MarkFlagRequired("title")
}

func run(audioPath string) error {
	baseURL := firstOf(opts.baseURL, os.Getenv("PODHOST_URL"), "http://127.0.0.1:8080")
	user := firstOf(opts.user, os.Getenv("PODHOST_USER"))
	password := firstOf(opts.password, os.Getenv("PODHOST_PASSWORD"))

	description, err := renderDescription(opts.description)
	if err != nil {
		return err
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := [][2]string{
		{"title", opts.title},
		{"public_image", opts.publicImage},
		{"author", opts.author},
		{"description", description},
		{"publish", strconv.FormatBool(opts.publish)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}

	if err := addFile(w, "audio", audioPath, opts.name); err != nil {
		return err
	}
	if opts.image != "" {
		if err := addFile(w, "image", opts.image, ""); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	uploadURL := fmt.Sprintf("%s/%s/upload", strings.TrimRight(baseURL, "/"), opts.slug)
	req, err := http.NewRequest(http.MethodPost, uploadURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if user != "" {
		req.SetBasicAuth(user, password)
	}

	fmt.Printf("start uploading %s to %s\n", audioPath, uploadURL)

	// The default transport picks up proxy settings from the environment.
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	// 200 and 400 carry JSON bodies; anything else is opaque text.
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusBadRequest {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err == nil {
			raw = pretty.Bytes()
		}
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "status=%d\n%s\n", resp.StatusCode, raw)
		return fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}

	fmt.Println(string(raw))
	return nil
}

func renderDescription(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	md, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read description file: %w", err)
	}
	var buf bytes.Buffer
	if err := goldmark.Convert(md, &buf); err != nil {
		return "", fmt.Errorf("failed to render description: %w", err)
	}
	return buf.String(), nil
}

func addFile(w *multipart.Writer, field, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s file: %w", field, err)
	}
	defer f.Close()

	if name == "" {
		name = filepath.Base(path)
	}
	fw, err := w.CreateFormFile(field, name)
	if err != nil {
		return fmt.Errorf("failed to create %s form file: %w", field, err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return fmt.Errorf("failed to copy %s file: %w", field, err)
	}
	return nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
