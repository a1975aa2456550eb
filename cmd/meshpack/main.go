// Command meshpack compresses Wavefront OBJ geometry with meshcodec.
//
// Usage:
//
//	meshpack -mode encode [-config pack.yaml] model.obj [more.obj ...]
//	meshpack -mode decode model.mcd [more.mcd ...]
//	meshpack -mode info model.mcd
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/meshcodec"
	"github.com/gogpu/meshcodec/internal/objfile"
	"github.com/gogpu/meshcodec/mesh"
)

// packConfig mirrors the YAML config file accepted by -config.
type packConfig struct {
	PositionBits int  `yaml:"position_bits"`
	TexCoordBits int  `yaml:"texcoord_bits"`
	NormalBits   int  `yaml:"normal_bits"`
	Sequential   bool `yaml:"sequential"`
}

func defaultConfig() packConfig {
	return packConfig{
		PositionBits: meshcodec.DefaultQuantizationBits,
		TexCoordBits: 12,
		NormalBits:   10,
	}
}

func (c packConfig) options() []meshcodec.Option {
	opts := []meshcodec.Option{
		meshcodec.WithPositionQuantization(c.PositionBits),
		meshcodec.WithAttributeQuantization(mesh.TexCoord, c.TexCoordBits),
		meshcodec.WithAttributeQuantization(mesh.Normal, c.NormalBits),
	}
	if c.Sequential {
		opts = append(opts, meshcodec.WithSequentialConnectivity())
	}
	return opts
}

func main() {
	var (
		mode       = flag.String("mode", "encode", "encode, decode or info")
		configPath = flag.String("config", "", "YAML config file")
		verbose    = flag.Bool("v", false, "enable codec logging")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		meshcodec.SetLogger(slog.Default())
	}

	cfg := defaultConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to read config: %v", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Failed to parse config: %v", err)
		}
	}

	switch *mode {
	case "encode":
		runBatch(flag.Args(), "encoding", func(path string) error {
			return encodeFile(path, cfg)
		})
	case "decode":
		runBatch(flag.Args(), "decoding", func(path string) error {
			return decodeFile(path)
		})
	case "info":
		for _, path := range flag.Args() {
			if err := infoFile(path); err != nil {
				log.Fatalf("%s: %v", path, err)
			}
		}
	default:
		log.Fatalf("Unknown mode %q", *mode)
	}
}

func runBatch(paths []string, title string, fn func(string) error) {
	bar := progressbar.Default(int64(len(paths)), title)
	for _, path := range paths {
		if err := fn(path); err != nil {
			log.Fatalf("%s: %v", path, err)
		}
		_ = bar.Add(1)
	}
}

func encodeFile(path string, cfg packConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := objfile.Load(f)
	if err != nil {
		return err
	}

	var data []byte
	if m.NumFaces() == 0 {
		data, err = meshcodec.EncodePointCloud(m, cfg.options()...)
	} else {
		data, err = meshcodec.EncodeMesh(m, cfg.options()...)
	}
	if err != nil {
		return err
	}

	out := replaceExt(path, ".mcd")
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	if in, err := f.Stat(); err == nil && in.Size() > 0 {
		log.Printf("%s: %d faces, %d -> %d bytes (%.1f%%)",
			filepath.Base(out), m.NumFaces(), in.Size(), len(data),
			100*float64(len(data))/float64(in.Size()))
	}
	return nil
}

func decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	m, err := meshcodec.Decode(data)
	if err != nil {
		return err
	}

	out, err := os.Create(replaceExt(path, ".obj"))
	if err != nil {
		return err
	}
	defer out.Close()
	return objfile.Save(out, m)
}

func infoFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	m, err := meshcodec.Decode(data)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d bytes\n", path, len(data))
	fmt.Printf("  points: %d  faces: %d\n", m.NumPoints(), m.NumFaces())
	for i := 0; i < m.NumAttributes(); i++ {
		a := m.Attribute(i)
		fmt.Printf("  attribute %d: %v x%d, %d values\n",
			i, a.Kind, a.NumComponents(), a.NumValues())
	}

	if m.NumFaces() > 0 {
		sf := mesh.NewStripifier()
		var w mesh.IndexSliceWriter
		if err := sf.GenerateWithPrimitiveRestart(m, 0xFFFFFFFF, &w); err == nil {
			fmt.Printf("  strips: %d  strip indices: %d (%.2f indices/face)\n",
				sf.NumStrips(), len(w.Indices),
				float64(len(w.Indices))/float64(m.NumFaces()))
		}
	}
	return nil
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
