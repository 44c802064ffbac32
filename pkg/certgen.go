package ssllabsreport

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
)

var (
	certsPath = filepath.Join("~", ".ssllabsreport", "certs")
)

//genCerts returns the certificate and key of the API endpoint. Supplied ssllabsreport.pem/.key files win; otherwise a self-signed pair is generated
func genCerts() (certFile, keyFile string, err error) {
	dir, err := homedir.Expand(certsPath)
	if err != nil {
		return
	}
	suppliedCert := filepath.Join(dir, "ssllabsreport.pem")
	suppliedKey := filepath.Join(dir, "ssllabsreport.key")
	if _, err := os.Stat(suppliedCert); err == nil {
		if _, err := os.Stat(suppliedKey); err == nil {
			return suppliedCert, suppliedKey, nil
		}
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return
	}
	return genSelfSigned(dir)
}

func genSelfSigned(dir string) (certFile, keyFile string, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return
	}
	serialNo, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return
	}
	notBefore := time.Now()
	cert := x509.Certificate{
		SerialNumber:          serialNo,
		NotBefore:             notBefore,
		NotAfter:              notBefore.AddDate(0, 6, 0),
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		Subject: pkix.Name{
			Organization: []string{"SSL Labs Report"},
			CommonName:   "localhost",
		},
		DNSNames: []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, &cert, &cert, &key.PublicKey, key)
	if err != nil {
		return
	}
	kb, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return
	}
	if keyFile, err = savePEM(filepath.Join(dir, "ssllabsreport-self-signed.key"), "EC PRIVATE KEY", kb, 0600); err != nil {
		return
	}
	certFile, err = savePEM(filepath.Join(dir, "ssllabsreport-self-signed.pem"), "CERTIFICATE", der, 0644)
	return
}

func savePEM(fileName, blockType string, data []byte, perm os.FileMode) (string, error) {
	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fileName, err
	}
	defer file.Close()
	if err = pem.Encode(file, &pem.Block{Type: blockType, Bytes: data}); err != nil {
		return fileName, err
	}
	return fileName, nil
}
