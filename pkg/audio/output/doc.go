// ABOUTME: Audio output package for driving playback devices
// ABOUTME: Provides Driver/Device interfaces and oto, malgo, pulse, PortAudio, null drivers
// Package output provides the platform audio-output service the tone engine
// plays through.
//
// A Driver opens a Device for a Format. Buffers go through the device in a
// fixed order: Prepare, Write, then Unprepare, which reports ErrStillPlaying
// until the hardware is done with the buffer. Reset stops pending output.
//
// Drivers: oto (default), malgo, pulse, portaudio (build with -tags portaudio)
// and null, which plays silently in real time.
//
// Example:
//
//	drv, err := output.New("oto")
//	dev, err := drv.Open(audio.DefaultFormat())
//	err = dev.Prepare(buf)
//	err = dev.Write(buf)
//	for output.IsStillPlaying(dev.Unprepare(buf)) {
//	    time.Sleep(10 * time.Millisecond)
//	}
//	err = dev.Close()
package output
