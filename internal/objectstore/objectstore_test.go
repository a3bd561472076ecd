// Skytally - Flight Data Ingestion and Enrichment API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skytally

package objectstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDirBucket_ListAndOpen(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "airports.csv", "name,airportIATA,lat,lon\n")
	writeFile(t, root, "flights/2023/1/flight_data.json", "[]")
	writeFile(t, root, "aircrafts.xml", "<aircrafts/>")

	b, err := NewDirBucket(root)
	if err != nil {
		t.Fatalf("NewDirBucket() error = %v", err)
	}

	objects, err := b.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	var names []string
	for _, o := range objects {
		names = append(names, o.Name)
	}
	want := "aircrafts.xml,airports.csv,flights/2023/1/flight_data.json"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("List() names = %s, want %s", got, want)
	}
	if objects[2].Ext() != ".json" || objects[2].Base() != "flight_data.json" {
		t.Errorf("Ext/Base = %q/%q", objects[2].Ext(), objects[2].Base())
	}

	rc, err := b.Open(context.Background(), "flights/2023/1/flight_data.json")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "[]" {
		t.Errorf("Open() content = %q", data)
	}
}

func TestDirBucket_OpenErrors(t *testing.T) {
	t.Parallel()

	b, err := NewDirBucket(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := b.Open(context.Background(), "missing.csv"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Open(missing) error = %v, want ErrObjectNotFound", err)
	}
	if _, err := b.Open(context.Background(), "../etc/passwd"); !errors.Is(err, ErrUnsafeName) {
		t.Errorf("Open(../etc/passwd) error = %v, want ErrUnsafeName", err)
	}
}

func TestNewDirBucket_RequiresDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "file.txt", "x")

	if _, err := NewDirBucket(filepath.Join(root, "file.txt")); err == nil {
		t.Error("expected error for file root")
	}
	if _, err := NewDirBucket(filepath.Join(root, "nope")); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestDownload_CreatesDirectoriesAndOverwrites(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	staging := filepath.Join(t.TempDir(), "temp")
	writeFile(t, src, "flights/2024/03/flight_data.json", `[{"flightNumber":"F1"}]`)

	b, err := NewDirBucket(src)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		dest, err := Download(context.Background(), b, "flights/2024/03/flight_data.json", staging)
		if err != nil {
			t.Fatalf("Download() #%d error = %v", i, err)
		}
		want := filepath.Join(staging, "flights", "2024", "03", "flight_data.json")
		if dest != want {
			t.Errorf("Download() path = %s, want %s", dest, want)
		}
		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `[{"flightNumber":"F1"}]` {
			t.Errorf("staged content = %s", data)
		}
	}

	entries, err := os.ReadDir(filepath.Join(staging, "flights", "2024", "03"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("staging dir has %d entries, temporary files left behind", len(entries))
	}
}

func TestDownload_MissingObject(t *testing.T) {
	t.Parallel()

	b, err := NewDirBucket(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Download(context.Background(), b, "passengers.yaml", t.TempDir()); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Download() error = %v, want ErrObjectNotFound", err)
	}
}

func TestStagingPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"passengers.yaml", false},
		{"flights/2023/1/flight_data.json", false},
		{"../escape.json", true},
		{"/abs/path.json", true},
		{"flights/../../escape.json", true},
	}
	for _, tt := range tests {
		_, err := StagingPath("temp", tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("StagingPath(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

// fakeS3 serves ListObjectsV2 pages and GetObject bodies from memory.
type fakeS3 struct {
	pages   [][]string
	objects map[string]string
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	idx := 0
	if in.ContinuationToken != nil {
		switch aws.ToString(in.ContinuationToken) {
		case "page-1":
			idx = 1
		default:
			return nil, errors.New("bad token")
		}
	}

	out := &s3.ListObjectsV2Output{}
	for _, key := range f.pages[idx] {
		out.Contents = append(out.Contents, types.Object{
			Key:  aws.String(key),
			Size: aws.Int64(int64(len(f.objects[key]))),
		})
	}
	if idx+1 < len(f.pages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String("page-1")
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Bucket_ListPaginates(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{
		pages: [][]string{
			{"airports.csv", "flights/"},
			{"flights/2023/1/flight_data.json"},
		},
		objects: map[string]string{
			"airports.csv":                    "name,airportIATA,lat,lon\n",
			"flights/2023/1/flight_data.json": "[]",
		},
	}
	b := newS3Bucket(S3Config{Bucket: "flights-bucket"}, fake)

	objects, err := b.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("List() returned %d objects, want 2: %+v", len(objects), objects)
	}
	if objects[1].Name != "flights/2023/1/flight_data.json" {
		t.Errorf("second object = %s", objects[1].Name)
	}
	if b.Name() != "flights-bucket" {
		t.Errorf("Name() = %s", b.Name())
	}
}

func TestS3Bucket_Open(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{objects: map[string]string{"tickets.csv": "flightNumber,passengerID\n"}}
	b := newS3Bucket(S3Config{Bucket: "b"}, fake)

	rc, err := b.Open(context.Background(), "tickets.csv")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	data, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if string(data) != "flightNumber,passengerID\n" {
		t.Errorf("Open() content = %q", data)
	}

	if _, err := b.Open(context.Background(), "missing.csv"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Open(missing) error = %v, want ErrObjectNotFound", err)
	}
}

func TestNewS3Bucket_RequiresBucket(t *testing.T) {
	t.Parallel()

	if _, err := NewS3Bucket(context.Background(), S3Config{}); err == nil {
		t.Error("expected error for empty bucket name")
	}
}
