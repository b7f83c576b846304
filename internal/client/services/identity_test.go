package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDeviceReady_ProvisionsWhenAbsent(t *testing.T) {
	dir := newFakeDirectory()
	keys := newMemKeystore()
	svc := NewIdentityService(dir, keys, testLogger())
	sess := testSession("u1")

	kp, err := svc.EnsureDeviceReady(context.Background(), sess)
	require.NoError(t, err)
	require.NotNil(t, kp)
	assert.Equal(t, "u1", kp.UserID)
	assert.Len(t, kp.PublicKey, 65)
	assert.Len(t, kp.PrivateKey, 32)

	// The directory got the public key, the keystore got the pair.
	dev := dir.devices[kp.DeviceID]
	require.NotNil(t, dev)
	assert.Equal(t, kp.PublicKey, dev.PublicKey)
	assert.Equal(t, kp, keys.pairs["u1"])
}

func TestEnsureDeviceReady_ReusesConfirmedIdentity(t *testing.T) {
	dir := newFakeDirectory()
	keys := newMemKeystore()
	svc := NewIdentityService(dir, keys, testLogger())
	sess := testSession("u1")

	kp := registerDevice(t, dir, "u1")
	require.NoError(t, keys.Save(context.Background(), kp))

	got, err := svc.EnsureDeviceReady(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, kp, got)
	assert.Empty(t, dir.patched)
	assert.Len(t, dir.devices, 1)
}

func TestEnsureDeviceReady_CorrectsDirectoryDrift(t *testing.T) {
	dir := newFakeDirectory()
	keys := newMemKeystore()
	svc := NewIdentityService(dir, keys, testLogger())
	sess := testSession("u1")

	kp := registerDevice(t, dir, "u1")
	require.NoError(t, keys.Save(context.Background(), kp))

	// Someone overwrote the published key; the local private key wins.
	dir.devices[kp.DeviceID].PublicKey = []byte{0x04, 0xff}

	got, err := svc.EnsureDeviceReady(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, kp.DeviceID, got.DeviceID)
	assert.Equal(t, kp.PublicKey, dir.patched[kp.DeviceID])
	assert.Equal(t, kp.PublicKey, dir.devices[kp.DeviceID].PublicKey)
}

func TestEnsureDeviceReady_ReprovisionsUnknownDevice(t *testing.T) {
	dir := newFakeDirectory()
	keys := newMemKeystore()
	svc := NewIdentityService(dir, keys, testLogger())
	sess := testSession("u1")

	kp := registerDevice(t, dir, "u1")
	require.NoError(t, keys.Save(context.Background(), kp))
	delete(dir.devices, kp.DeviceID)

	got, err := svc.EnsureDeviceReady(context.Background(), sess)
	require.NoError(t, err)
	assert.NotEqual(t, kp.DeviceID, got.DeviceID)
	assert.NotEqual(t, kp.PrivateKey, got.PrivateKey)
	assert.Equal(t, got, keys.pairs["u1"])
}

func TestEnsureDeviceReady_ReprovisionsForeignDevice(t *testing.T) {
	dir := newFakeDirectory()
	keys := newMemKeystore()
	svc := NewIdentityService(dir, keys, testLogger())

	kp := registerDevice(t, dir, "u2")
	kp.UserID = "u1"
	require.NoError(t, keys.Save(context.Background(), kp))

	got, err := svc.EnsureDeviceReady(context.Background(), testSession("u1"))
	require.NoError(t, err)
	assert.NotEqual(t, kp.DeviceID, got.DeviceID)
	assert.Equal(t, "u1", dir.devices[got.DeviceID].UserID)
}

func TestLoadIdentity_NilWhenAbsent(t *testing.T) {
	svc := NewIdentityService(newFakeDirectory(), newMemKeystore(), testLogger())

	kp, err := svc.LoadIdentity(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, kp)
}

func TestCreateIdentity_FreshKeysPerDevice(t *testing.T) {
	dir := newFakeDirectory()
	svc := NewIdentityService(dir, newMemKeystore(), testLogger())

	a, err := svc.CreateIdentity(context.Background(), testSession("u1"))
	require.NoError(t, err)
	b, err := svc.CreateIdentity(context.Background(), testSession("u2"))
	require.NoError(t, err)

	assert.NotEqual(t, a.PrivateKey, b.PrivateKey)
	assert.NotEqual(t, a.PublicKey, b.PublicKey)
}
