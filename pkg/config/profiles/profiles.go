package profiles

import (
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/hectane/go-acl"
	yaml "gopkg.in/yaml.v3"
)

var ErrProfileStoreNotFound = errors.New("profile store is not found")
var ErrCannotCreateConfig = errors.New("cannot create profile store")
var ErrCannotUpdateConfig = errors.New("cannot update profile store")
var ErrProfileInvalid = errors.New("profile is invalid")

// ProfileStore is a map from profile name to Profile.
type ProfileStore map[string]*Profile

type Cert struct {
	// base64 encoded CA certificate
	CA string `yaml:"ca,omitempty"`
}

// SizeScale is a rule to scale marker size: clamp(value*Factor + Base, Base, Max).
type SizeScale struct {
	Base   float64 `yaml:"base"`
	Factor float64 `yaml:"factor"`
	Max    float64 `yaml:"max"`
}

func (s SizeScale) IsZero() bool {
	return s == SizeScale{}
}

type Scaling struct {
	Party SizeScale `yaml:"party,omitempty"`
	Pop   SizeScale `yaml:"pop,omitempty"`
}

// Profile is a set of settings to talk to a chronodemica backend.
type Profile struct {
	// endpoint of the collection API, like "http://localhost:8000/api/v1"
	ApiRoot string `yaml:"apiRoot"`

	Cert Cert `yaml:"cert,omitempty"`

	// timeout for each request. 0 means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// upper limit of requests per second. 0 means unlimited.
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"`

	// marker size scaling of scatter plots. Zero values are replaced by defaults.
	Scaling Scaling `yaml:"scaling,omitempty"`

	// colors for traces of entities having no colors.
	Palette []string `yaml:"palette,omitempty"`
}

func verifyUrl(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

func verifyPEM(b64cert string) bool {
	bin, err := base64.StdEncoding.DecodeString(b64cert)
	if err != nil {
		return false
	}
	blk, _ := pem.Decode(bin)
	return blk != nil
}

// Verify Profile
//
// # Return
//
// nil if it is valid. Otherwise, ErrProfileInvalid error.
func (p *Profile) Verify() error {
	if !verifyUrl(p.ApiRoot) {
		return fmt.Errorf("%w: apiRoot is not URL: %s", ErrProfileInvalid, p.ApiRoot)
	}
	if p.Cert.CA != "" && !verifyPEM(p.Cert.CA) {
		return fmt.Errorf("%w: cert.ca is not PEM", ErrProfileInvalid)
	}
	if p.Timeout < 0 {
		return fmt.Errorf("%w: timeout should not be negative: %s", ErrProfileInvalid, p.Timeout)
	}
	if p.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requestsPerSecond should not be negative: %f", ErrProfileInvalid, p.RequestsPerSecond)
	}
	for name, s := range map[string]SizeScale{"party": p.Scaling.Party, "pop": p.Scaling.Pop} {
		if s.IsZero() {
			continue
		}
		if s.Max < s.Base {
			return fmt.Errorf("%w: scaling.%s: max (%f) is less than base (%f)", ErrProfileInvalid, name, s.Max, s.Base)
		}
	}
	return nil
}

// LoadProfileStore loads profile store from file.
func LoadProfileStore(filepath string) (ProfileStore, error) {
	buf, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrProfileStoreNotFound, filepath)
		}
		return nil, err
	}
	return Unmarshall(buf)
}

// Unmarshall profile store from yaml in byte array.
func Unmarshall(buf []byte) (ProfileStore, error) {
	ret := map[string]*Profile{}
	if err := yaml.Unmarshal(buf, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Save profile store to file.
//
// The previous content is kept in "{path}.backup" while writing,
// and the backup is removed when saving succeeded.
func (ps *ProfileStore) Save(path string) error {
	saving := false

	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(0700)); err != nil {
		return err
	}

	bkpath := path + ".backup"
	bk, err := newSafeFile(bkpath)
	if err != nil {
		return err
	}
	defer func() {
		if !saving {
			os.Remove(bkpath)
		}
	}()
	defer bk.Close()

	f, err := os.OpenFile(path, os.O_RDWR, os.FileMode(0600))
	if err == nil {
		// the existing file may have loose permissions.
		if err := acl.Chmod(path, os.FileMode(0600)); err != nil {
			f.Close()
			return err
		}
	} else {
		if os.IsPermission(err) {
			return fmt.Errorf(
				"%w, because no permission to write file at %s",
				ErrCannotUpdateConfig, path,
			)
		} else if os.IsNotExist(err) {
			f_, err_ := newSafeFile(path)
			if err_ != nil {
				return fmt.Errorf(
					"%w: cannot create a file at %s", ErrCannotCreateConfig, path,
				)
			}
			f = f_
		} else {
			return err
		}
	}
	defer f.Close()

	if _, err := io.Copy(bk, f); err != nil {
		return err
	}

	saving = true
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		return err
	}
	buf, err := yaml.Marshal(ps)
	if err != nil {
		return err
	}
	if _, err = f.Write(buf); err != nil {
		return err
	}

	saving = false
	return nil
}
