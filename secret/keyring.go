package secret

import "github.com/zalando/go-keyring"

// Keyring abstracts the OS secret store. The default implementation is
// backed by the platform keychain (Keychain Services, Secret Service,
// Windows Credential Manager); tests inject fakes.
type Keyring interface {
	Get(service, user string) (string, error)
	Set(service, user, password string) error
	Delete(service, user string) error
}

// keychainPackage namespaces every entry this client writes to the OS
// secret store.
const keychainPackage = "lib.openapi.zserio.client"

// systemKeyring adapts the platform keychain to the Keyring interface.
type systemKeyring struct{}

func (systemKeyring) Get(service, user string) (string, error) {
	return keyring.Get(keychainPackage+"/"+service, user)
}

func (systemKeyring) Set(service, user, password string) error {
	return keyring.Set(keychainPackage+"/"+service, user, password)
}

func (systemKeyring) Delete(service, user string) error {
	return keyring.Delete(keychainPackage+"/"+service, user)
}
