package keys

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"xdao.co/warden/identity"
)

// Store is a simple local-first keystore.
//
// Features:
// - secp256k1 owner keys, one per name
// - guardian keys derived deterministically from the owner seed by label
// - stores seeds on the local filesystem, 0700 directories and 0600 files
//
// There is no encryption at rest; file modes are the only guard, which is the
// intended scope for a development and single-operator tool.
type Store struct {
	Directory string
}

// Entry describes one named key and its derived guardian labels.
type Entry struct {
	Name      string
	Guardians []string
}

func DefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".xdao", "warden", "keys"), nil
}

func Open(directory string) (*Store, error) {
	if directory == "" {
		var err error
		directory, err = DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &Store{Directory: directory}, nil
}

func (s *Store) ownerKeyPath(name string) string {
	return filepath.Join(s.Directory, name, "owner.key")
}

func (s *Store) guardianKeyPath(name, label string) string {
	return filepath.Join(s.Directory, name, "guardians", label+".key")
}

func CheckName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in name", char)
	}
	return nil
}

func CheckLabel(label string) error {
	if label == "" {
		return errors.New("label cannot be empty")
	}
	for _, char := range label {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in label", char)
	}
	return nil
}

func ParseSeedHex(seedHex string) ([]byte, error) {
	seedHex = strings.TrimSpace(seedHex)
	seedHex = strings.TrimPrefix(seedHex, "0x")
	data, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, err
	}
	if len(data) != SeedSize {
		return nil, fmt.Errorf("expected seed length of %d bytes, got %d", SeedSize, len(data))
	}
	return data, nil
}

func (s *Store) saveSeedToFile(filePath string, seed []byte, overwrite bool) error {
	if len(seed) != SeedSize {
		return fmt.Errorf("expected seed length of %d bytes", SeedSize)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filePath, flags, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.WriteString(hex.EncodeToString(seed) + "\n"); err != nil {
		return err
	}
	return file.Close()
}

func (s *Store) loadSeedFromFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseSeedHex(strings.TrimSpace(string(data)))
}

// InitOwnerKey stores the owner seed for name, generating a random one when
// seed is nil, and returns the identity it controls plus the file path.
func (s *Store) InitOwnerKey(name string, seed []byte, overwrite bool) (identity.Identity, string, error) {
	if err := CheckName(name); err != nil {
		return identity.Zero, "", err
	}
	if seed == nil {
		seed = make([]byte, SeedSize)
		if _, err := rand.Read(seed); err != nil {
			return identity.Zero, "", err
		}
	}
	id, err := IdentityFromSeed(seed)
	if err != nil {
		return identity.Zero, "", err
	}
	filePath := s.ownerKeyPath(name)
	if err := s.saveSeedToFile(filePath, seed, overwrite); err != nil {
		return identity.Zero, "", err
	}
	return id, filePath, nil
}

// DeriveGuardianKey derives and stores the guardian seed for label from
// name's owner seed, returning the guardian identity, its registry key, and
// the file path.
func (s *Store) DeriveGuardianKey(from, label string, overwrite bool) (identity.Identity, identity.GuardianID, string, error) {
	if err := CheckName(from); err != nil {
		return identity.Zero, identity.GuardianID{}, "", err
	}
	if err := CheckLabel(label); err != nil {
		return identity.Zero, identity.GuardianID{}, "", err
	}
	ownerSeed, err := s.loadSeedFromFile(s.ownerKeyPath(from))
	if err != nil {
		return identity.Zero, identity.GuardianID{}, "", err
	}
	guardianSeed, err := DeriveGuardianSeed(ownerSeed, label)
	if err != nil {
		return identity.Zero, identity.GuardianID{}, "", err
	}
	id, err := IdentityFromSeed(guardianSeed)
	if err != nil {
		return identity.Zero, identity.GuardianID{}, "", err
	}
	filePath := s.guardianKeyPath(from, label)
	if err := s.saveSeedToFile(filePath, guardianSeed, overwrite); err != nil {
		return identity.Zero, identity.GuardianID{}, "", err
	}
	return id, identity.GuardianIDOf(id), filePath, nil
}

// Identity returns the public identity stored under name; a non-empty label
// selects a derived guardian key.
func (s *Store) Identity(name, label string) (identity.Identity, error) {
	if err := CheckName(name); err != nil {
		return identity.Zero, err
	}
	var seed []byte
	var err error
	if label == "" {
		seed, err = s.loadSeedFromFile(s.ownerKeyPath(name))
	} else {
		if err := CheckLabel(label); err != nil {
			return identity.Zero, err
		}
		seed, err = s.loadSeedFromFile(s.guardianKeyPath(name, label))
	}
	if err != nil {
		return identity.Zero, err
	}
	return IdentityFromSeed(seed)
}

// LoadSeed resolves signing material by precedence: an explicit hex seed, an
// explicit key file, then a stored name with optional guardian label.
func (s *Store) LoadSeed(seedHex, name, label, keyFile string) ([]byte, error) {
	if seedHex != "" {
		return ParseSeedHex(seedHex)
	}
	if keyFile != "" {
		return s.loadSeedFromFile(keyFile)
	}
	if name != "" {
		if err := CheckName(name); err != nil {
			return nil, err
		}
		if label == "" {
			return s.loadSeedFromFile(s.ownerKeyPath(name))
		}
		if err := CheckLabel(label); err != nil {
			return nil, err
		}
		return s.loadSeedFromFile(s.guardianKeyPath(name, label))
	}
	return nil, errors.New("no signer provided")
}

// List returns the stored names with their guardian labels, sorted.
func (s *Store) List() ([]Entry, error) {
	entries, err := os.ReadDir(s.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var result []Entry
	for _, name := range names {
		guardiansDir := filepath.Join(s.Directory, name, "guardians")
		guardianEntries, gerr := os.ReadDir(guardiansDir)
		var labels []string
		if gerr == nil {
			for _, ge := range guardianEntries {
				if ge.IsDir() {
					continue
				}
				if strings.HasSuffix(ge.Name(), ".key") {
					labels = append(labels, strings.TrimSuffix(ge.Name(), ".key"))
				}
			}
			sort.Strings(labels)
		}
		result = append(result, Entry{Name: name, Guardians: labels})
	}
	return result, nil
}
