package vision

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"horizon-eval/internal/domain/entity"
	"horizon-eval/internal/domain/port"
)

var frameExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// FrameSource прогоняет детектор по всем кадрам каталога.
type FrameSource struct {
	dir         string
	detector    port.HorizonDetector
	annotateDir string
	groundTruth port.GroundTruthSource
}

// NewFrameSource создаёт источник ответов детектора по каталогу кадров.
func NewFrameSource(dir string, detector port.HorizonDetector) *FrameSource {
	return &FrameSource{dir: dir, detector: detector}
}

// WithAnnotations включает сохранение кадров с нарисованными линиями в dir.
func (s *FrameSource) WithAnnotations(dir string, groundTruth port.GroundTruthSource) *FrameSource {
	s.annotateDir = dir
	s.groundTruth = groundTruth
	return s
}

// Detections обходит кадры в лексикографическом порядке. Кадр, который не удалось
// прочитать или обработать, пропускается.
func (s *FrameSource) Detections(ctx context.Context) ([]entity.Detection, error) {
	frames, err := listFrames(s.dir)
	if err != nil {
		return nil, err
	}

	gt, err := s.annotationIndex(ctx)
	if err != nil {
		return nil, err
	}

	detections := make([]entity.Detection, 0, len(frames))
	for _, name := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			log.Printf("Skipping frame %s: %v", name, err)
			continue
		}

		start := time.Now()
		estimate, err := s.detector.Detect(ctx, data)
		elapsed := time.Since(start)
		if err != nil {
			log.Printf("Skipping frame %s: %v", name, err)
			continue
		}

		detections = append(detections, entity.Detection{
			Filename:    name,
			Detected:    estimate.Detected,
			Rho:         estimate.Rho,
			Theta:       estimate.Theta,
			Elapsed:     entity.Defined(elapsed.Seconds()),
			ImageHeight: estimate.ImageHeight,
		})

		if gt != nil {
			s.saveAnnotated(name, data, estimate, gt)
		}
	}

	log.Printf("Processed %d of %d frames from %s", len(detections), len(frames), s.dir)
	return detections, nil
}

func (s *FrameSource) annotationIndex(ctx context.Context) (map[string]entity.GroundTruthEntry, error) {
	if s.annotateDir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(s.annotateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create annotated frames dir: %w", err)
	}

	index := make(map[string]entity.GroundTruthEntry)
	if s.groundTruth == nil {
		return index, nil
	}
	entries, err := s.groundTruth.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ground truth for annotations: %w", err)
	}
	for _, e := range entries {
		index[e.Filename] = e
	}
	return index, nil
}

func (s *FrameSource) saveAnnotated(name string, data []byte, estimate *port.HorizonEstimate, gt map[string]entity.GroundTruthEntry) {
	var entry *entity.GroundTruthEntry
	if e, ok := gt[name]; ok {
		entry = &e
	}

	annotated, err := s.detector.Annotate(data, estimate, entry)
	if err != nil {
		log.Printf("Error annotating frame %s: %v", name, err)
		return
	}

	out := filepath.Join(s.annotateDir, strings.TrimSuffix(name, filepath.Ext(name))+".jpg")
	if err := os.WriteFile(out, annotated, 0o644); err != nil {
		log.Printf("Error saving annotated frame %s: %v", name, err)
	}
}

// listFrames возвращает отсортированные имена файлов-кадров каталога.
func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frames dir: %w", err)
	}

	var frames []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if frameExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			frames = append(frames, e.Name())
		}
	}
	sort.Strings(frames)
	return frames, nil
}

// Проверка реализации интерфейса
var _ port.DetectionSource = (*FrameSource)(nil)
