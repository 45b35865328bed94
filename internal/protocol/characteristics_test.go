package protocol

import "testing"

func TestCharacteristicUUID(t *testing.T) {
	tests := []struct {
		char Characteristic
		want string
	}{
		{CharColor, "0000fffc-0000-1000-8000-00805f9b34fb"},
		{CharEffect, "0000fffb-0000-1000-8000-00805f9b34fb"},
		{CharTimerSchedule, "0000fffe-0000-1000-8000-00805f9b34fb"},
		{CharTimerEffect, "0000fff8-0000-1000-8000-00805f9b34fb"},
		{CharSecurity, "0000fff9-0000-1000-8000-00805f9b34fb"},
		{CharName, "0000ffff-0000-1000-8000-00805f9b34fb"},
		{CharPIN, "0000fff7-0000-1000-8000-00805f9b34fb"},
		{CharFactoryReset, "0000fffd-0000-1000-8000-00805f9b34fb"},
		{CharBatteryLevel, "00002a19-0000-1000-8000-00805f9b34fb"},
		{CharPnPID, "00002a50-0000-1000-8000-00805f9b34fb"},
	}

	for _, tt := range tests {
		t.Run(tt.char.Name(), func(t *testing.T) {
			if got := tt.char.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
			back, err := ParseCharacteristic(tt.want)
			if err != nil || back != tt.char {
				t.Errorf("ParseCharacteristic(%s) = %v, %v; want %v", tt.want, back, err, tt.char)
			}
		})
	}
}

func TestParseCharacteristicRejectsVendorBase(t *testing.T) {
	if _, err := ParseCharacteristic("0000fffc-0000-1000-8000-00805f9b34fc"); err == nil {
		t.Error("ParseCharacteristic() accepted a UUID outside the Bluetooth base")
	}
	if _, err := ParseCharacteristic("not-a-uuid"); err == nil {
		t.Error("ParseCharacteristic() accepted garbage")
	}
}

func TestCharacteristicNameFallback(t *testing.T) {
	if got := Characteristic(0x1234).Name(); got != "0x1234" {
		t.Errorf("Name() = %s, want 0x1234", got)
	}
}
