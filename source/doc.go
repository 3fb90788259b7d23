// Package source decodes videos into grayscale frames for glyph conversion.
//
// Every backend implements [Source]: it reports the stream's [Info] up front
// and hands out one [*image.Gray] per call to [Source.Next] until [io.EOF].
//
//   - [OpenVidio] decodes video files through github.com/AlexEidt/Vidio.
//   - [OpenFFmpeg] pipes raw gray frames out of ffmpeg.
//   - [OpenPNGDir] reads a directory of PNG frames in filename order.
//   - [OpenGIF] decodes an animated GIF.
//   - [NewMemory] serves frames already held in memory.
//
// [Open] picks a backend from the path and [Options].
package source
