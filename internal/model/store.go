package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/trknhr/sentiment/internal/classifier"
	"github.com/trknhr/sentiment/internal/featurize"
	"github.com/trknhr/sentiment/internal/utils"
)

var (
	ErrModelNotFound = errors.New("model artifact not found")
	ErrModelCorrupt  = errors.New("model artifact is corrupt")
)

const (
	// FormatVersion is bumped whenever the payload layout changes.
	FormatVersion uint16 = 1

	formatName = "sentiment/logreg-tfidf"
	headerSize = 4 + 2 + 2 + 8 + sha256.Size
	maxPayload = 1 << 30
)

var magic = [4]byte{'S', 'N', 'T', 'M'}

// header is the fixed-size envelope in front of the payload:
// magic | version | flags | payload length | sha256(payload).
type header struct {
	Magic    [4]byte
	Version  uint16
	Flags    uint16
	Length   uint64
	Checksum [sha256.Size]byte
}

const flagSnappy uint16 = 1

type artifact struct {
	Format     string           `json:"format"`
	Featurizer featurize.State  `json:"featurizer"`
	Classifier classifier.State `json:"classifier"`
	Meta       Meta             `json:"meta"`
}

// Info describes a written artifact.
type Info struct {
	Path     string
	Version  uint16
	Size     int64
	Checksum string
}

// Save writes m to path atomically: the artifact is written to a temporary
// file in the same directory, synced, then renamed over path.
func Save(m *Model, path string) (Info, error) {
	if m == nil {
		return Info{}, ErrUntrained
	}

	raw, err := json.Marshal(artifact{
		Format:     formatName,
		Featurizer: m.featurizer.State(),
		Classifier: m.classifier.State(),
		Meta:       m.meta,
	})
	if err != nil {
		return Info{}, errors.Wrap(err, "encode model")
	}
	payload := snappy.Encode(nil, raw)

	h := header{
		Magic:    magic,
		Version:  FormatVersion,
		Flags:    flagSnappy,
		Length:   uint64(len(payload)),
		Checksum: sha256.Sum256(payload),
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + len(payload))
	if err := binary.Write(&buf, binary.BigEndian, h); err != nil {
		return Info{}, errors.Wrap(err, "encode header")
	}
	buf.Write(payload)

	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return Info{}, err
	}
	return Info{
		Path:     path,
		Version:  FormatVersion,
		Size:     int64(buf.Len()),
		Checksum: utils.Hash(payload),
	}, nil
}

func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create model dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp model file")
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(err, "write model")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "sync model")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close model")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "rename model")
	}
	return nil
}

// Load reads and validates the artifact at path.
func Load(path string) (*Model, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrModelNotFound, path)
		}
		return nil, errors.Wrapf(err, "open model %s", path)
	}
	defer file.Close()

	return Decode(file)
}

// Decode reads one artifact from r. Any envelope or payload inconsistency is
// reported as ErrModelCorrupt.
func Decode(r io.Reader) (*Model, error) {
	var h header
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, corrupt("short header: %v", err)
	}
	if h.Magic != magic {
		return nil, corrupt("bad magic %q", h.Magic[:])
	}
	if h.Version != FormatVersion {
		return nil, corrupt("unsupported format version %d", h.Version)
	}
	if h.Length == 0 || h.Length > maxPayload {
		return nil, corrupt("invalid payload length %d", h.Length)
	}

	payload := make([]byte, h.Length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, corrupt("truncated payload: %v", err)
	}
	if n, _ := r.Read(make([]byte, 1)); n != 0 {
		return nil, corrupt("trailing bytes after payload")
	}
	if sha256.Sum256(payload) != h.Checksum {
		return nil, corrupt("checksum mismatch")
	}

	raw := payload
	if h.Flags&flagSnappy != 0 {
		var err error
		if raw, err = snappy.Decode(nil, payload); err != nil {
			return nil, corrupt("decompress: %v", err)
		}
	}

	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, corrupt("decode payload: %v", err)
	}
	if a.Format != formatName {
		return nil, corrupt("unknown model format %q", a.Format)
	}

	f, err := featurize.FromState(a.Featurizer)
	if err != nil {
		return nil, corrupt("%v", err)
	}
	c, err := classifier.FromState(a.Classifier)
	if err != nil {
		return nil, corrupt("%v", err)
	}
	m, err := New(f, c, a.Meta)
	if err != nil {
		return nil, corrupt("%v", err)
	}
	return m, nil
}

func corrupt(format string, args ...interface{}) error {
	return errors.Wrapf(ErrModelCorrupt, format, args...)
}
