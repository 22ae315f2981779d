//go:build tinygo && baremetal && picocalc

package hal

type picoCalcHAL struct {
	logger *uartLogger
	fb     *tinyGoFramebuffer
	t      *tinyGoTime
}

// New returns a PicoCalc HAL implementation (Pico/Pico2 on the PicoCalc carrier).
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1. Display: 320x320 ILI9488 on SPI1.
func New() HAL {
	logger := newUARTLogger()

	fb := newTinyGoFramebuffer(320, 320)
	if lcd, err := initILI9488(); err == nil {
		fb.present = lcd.blitRGB565LittleEndian
	} else {
		logger.WriteLineString("hal: lcd init failed: " + err.Error())
	}

	return &picoCalcHAL{
		logger: logger,
		fb:     fb,
		t:      newTinyGoTime(),
	}
}

func (h *picoCalcHAL) Logger() Logger   { return h.logger }
func (h *picoCalcHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *picoCalcHAL) Time() Time       { return h.t }
