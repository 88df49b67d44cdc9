package auth

import "crypto/subtle"

// CredentialVerifier は保存済み資格情報と提示された資格情報の照合を抽象化する。
// ハッシュ方式に切り替える場合はこの実装だけを差し替える。
type CredentialVerifier interface {
	// Verify は stored と presented が一致する場合にtrueを返す。
	Verify(stored, presented string) bool
}

// PlaintextVerifier は平文同士を比較するCredentialVerifier。
// 比較は定数時間で行う。
type PlaintextVerifier struct{}

// Verify は平文の一致を判定する。
func (PlaintextVerifier) Verify(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// compile-time interface check
var _ CredentialVerifier = PlaintextVerifier{}
